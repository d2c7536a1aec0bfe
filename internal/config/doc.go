// Package config holds the validated per-test configuration of a golden-file
// run and the YAML suite files that carry it.
//
// A TestConfiguration is built from a bag of named options (as authored in a
// suite file) by New, which rejects any key it does not know. Typos in a
// suite therefore fail loudly instead of silently testing the wrong thing.
//
// Suite files group test cases under a test name:
//
//	name: OneVisitorTwoVisits
//	cases:
//	  - api: all
//	    options:
//	      idSite: 1
//	      date: 2010-03-06 11:22:33
//	      periods: [day, week]
//
// LoadSuites accepts a single file or a directory, which is walked for
// *.yaml and *.yml files in lexical order.
package config
