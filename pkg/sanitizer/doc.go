// Package sanitizer normalizes user-supplied strings before they are stored.
package sanitizer
