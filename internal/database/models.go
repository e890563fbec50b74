package database

// Photo is one catalog record. Fields after MD5 are filled in by metadata
// enrichment and read back as zero values until then.
type Photo struct {
	ID             int64  `json:"id"`
	Filename       string `json:"filename"`
	Path           string `json:"path"`
	UID            string `json:"uid"`
	MD5            string `json:"md5"`
	SortOrder      int64  `json:"sortOrder"`
	Hidden         bool   `json:"hidden"`
	MetadataParsed bool   `json:"metadataParsed"`
	Width          int64  `json:"width"`
	Height         int64  `json:"height"`
	Color          string `json:"color,omitempty"`
	Title          string `json:"title,omitempty"`
	Place          string `json:"place,omitempty"`
	DateTaken      string `json:"dateTaken,omitempty"`
	CameraModel    string `json:"cameraModel,omitempty"`
	LensMode       string `json:"lensMode,omitempty"`
	FocalLength    string `json:"focalLength,omitempty"`
	Aperture       string `json:"aperture,omitempty"`
	ExposureTime   string `json:"exposureTime,omitempty"`
	Sensitivity    string `json:"sensitivity,omitempty"`
}

// MovePair renames or moves the record identified by Old.UID to
// New.Path/New.Filename.
type MovePair struct {
	Old Photo
	New Photo
}

type CatalogStats struct {
	Photos          int `json:"photos"`
	Paths           int `json:"paths"`
	MetadataPending int `json:"metadataPending"`
}
