package requisition

// ScannerPermissionErrorName is the error name browsers raise when camera
// access is refused
const ScannerPermissionErrorName = "NotAllowedError"

// CameraPermissionError is reported when the scanner cannot open the camera
type CameraPermissionError struct {
	Detail string
}

func (e *CameraPermissionError) Error() string {
	return "Camera access denied. Please allow camera permissions."
}

// ClassifyScannerError maps a scanner failure to a user-facing error.
// Only a permission refusal is surfaced; per-frame decode misses and other
// scanner noise return nil.
func ClassifyScannerError(name, message string) error {
	if name == ScannerPermissionErrorName {
		return &CameraPermissionError{Detail: message}
	}
	return nil
}
