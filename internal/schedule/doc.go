// Package schedule turns a publish scheduling mode into an absolute UTC
// timestamp.
//
// Modes are a closed set of types (Immediate, NextWeekday, WeeksAfterEpoch,
// FixedDate, FixedDateTime) parsed from the `key=value` form used on the
// command line and in the config file. Parsing validates parameters up front
// so a Mode value is always usable; Resolve only fails for inputs that are
// supplied at resolve time (episode origin, episode number).
package schedule
