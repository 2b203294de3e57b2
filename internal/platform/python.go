package platform

import (
	"path/filepath"
	"runtime"
	"strconv"
)

// VenvBin returns the directory holding executables inside a virtual
// environment: Scripts on Windows, bin elsewhere.
func VenvBin(venvDir string) string {
	return venvBinFor(runtime.GOOS, venvDir)
}

func venvBinFor(goos, venvDir string) string {
	if goos == "windows" {
		return filepath.Join(venvDir, "Scripts")
	}
	return filepath.Join(venvDir, "bin")
}

// VenvExe returns the path of an executable installed in a virtual environment.
func VenvExe(venvDir, name string) string {
	return filepath.Join(VenvBin(venvDir), Exe(name))
}

// Exe appends .exe on Windows.
func Exe(name string) string {
	return exeFor(runtime.GOOS, name)
}

func exeFor(goos, name string) string {
	if goos == "windows" {
		return name + ".exe"
	}
	return name
}

// PythonLauncher returns the command that starts Python 3.<minor>: the py
// launcher on Windows, python3.<minor> elsewhere.
func PythonLauncher(minor int) (string, []string) {
	return pythonLauncherFor(runtime.GOOS, minor)
}

func pythonLauncherFor(goos string, minor int) (string, []string) {
	if goos == "windows" {
		return "py", []string{"-3." + strconv.Itoa(minor)}
	}
	return "python3." + strconv.Itoa(minor), nil
}

// DefaultPython is the interpreter probed for the running minor version.
func DefaultPython() string {
	if runtime.GOOS == "windows" {
		return "py"
	}
	return "python3"
}
