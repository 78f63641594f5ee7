// Package platform defines the operating system collaborators the launcher
// core depends on: package enumeration, icon extraction and process launch.
//
// The core only consumes these interfaces. The powershell subpackage holds
// default implementations for Windows hosts; tests use in-process fakes.
package platform
