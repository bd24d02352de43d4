// Package utils provides shared utility functions.
//
// These cover interactivity detection, repository precondition checks,
// and opening URLs in the platform browser.
package utils
