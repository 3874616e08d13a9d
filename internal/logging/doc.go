// Package logging provides the leveled logger shared by the formquery
// packages and commands.
//
// Levels are DEBUG, INFO, WARN and ERROR. The level is read once from the
// DEBUG or LOG_LEVEL environment variables and can be overridden with
// SetLevel (commands expose it as a flag).
package logging
