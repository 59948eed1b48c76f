package blocks

import "strings"

// DefaultLanguage is the language tag used when detection finds nothing.
const DefaultLanguage = "plain text"

// langMarkers maps a language tag to substrings that strongly suggest it.
// Checked in order; first language with a matching marker wins.
var langMarkers = []struct {
	lang    string
	markers []string
}{
	{"go", []string{"func ", "package main", ":= ", "fmt."}},
	{"python", []string{"def ", "import numpy", "print(", "self."}},
	{"javascript", []string{"function ", "=> ", "const ", "console.log"}},
	{"sql", []string{"select ", "insert into ", "create table "}},
	{"shell", []string{"#!/bin/", "echo ", "$ "}},
	{"json", []string{"{\""}},
}

// DetectLanguage guesses the language of a code snippet from keyword
// markers. Returns DefaultLanguage when nothing matches.
func DetectLanguage(code string) string {
	lower := strings.ToLower(code)
	for _, entry := range langMarkers {
		for _, marker := range entry.markers {
			if strings.Contains(lower, strings.ToLower(marker)) {
				return entry.lang
			}
		}
	}
	return DefaultLanguage
}
