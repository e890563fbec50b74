// Package logging provides leveled logging for the photo catalog.
//
// Levels, lowest first: DEBUG, INFO, WARN, ERROR. FATAL always prints and
// exits. The level comes from the DEBUG or LOG_LEVEL environment variables
// unless overridden with [SetLevel].
package logging
