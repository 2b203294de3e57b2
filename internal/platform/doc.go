// Package platform hides the differences between Windows and Unix that show
// up when laying out a Python project. It knows where a virtual environment
// keeps its executables and how a specific interpreter is launched. WriteFile
// pins file modes on systems that have them.
package platform
