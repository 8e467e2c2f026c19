/*
Package generic provides domain-agnostic building blocks for the timesheet engine.

KEY CONCEPTS:
  - TimePoint: A calendar day (entry windows, day-sheet keys)
  - Period: An inclusive day window, with the Week Calculator in week.go
  - Holiday / HolidayCalendar: Location-scoped non-working days
  - Errors: The Validation / NotFound / Unauthorized / Conflict / Internal taxonomy

DESIGN PRINCIPLES:
  1. Day granularity: windows and day keys are always UTC midnight
  2. One calculator: read and write paths share the same window derivation
  3. Categorized errors: every failure maps to one taxonomy sentinel

SEE ALSO:
  - week.go: Week window rules
  - errors.go: Error taxonomy and helpers
  - timesheet/: Domain logic built on these primitives
*/
package generic
