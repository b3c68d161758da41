// Package moment compiles moment.js-style date patterns such as
// "MM/DD/YYYY hh:mm A" into layouts that format and parse Go times.
//
// Browser date widgets describe their display format with moment tokens, and
// the same pattern string has to be understood on the Go side to seed,
// display and validate the value. Parsing is lenient in the way form
// validators are: single-letter numeric tokens accept one or two digits, and
// every component is range checked.
//
// # Tokens
//
//	YYYY  4-digit year        YY    2-digit year
//	MMMM  January             MMM   Jan
//	MM    01-12               M     1-12
//	DD    01-31               D     1-31
//	dddd  Monday              ddd   Mon
//	HH    00-23               H     0-23
//	hh    01-12               h     1-12
//	mm    00-59               m     0-59
//	ss    00-59               s     0-59
//	A     AM/PM               a     am/pm
//	ZZ    -0700               Z     -07:00
//
// Text inside square brackets is copied literally: "[at] h:mm A".
package moment
