package heap

import "github.com/sirupsen/logrus"

type Options struct {
	// Limit caps the bytes held by live blocks. Zero means no limit.
	Limit  uintptr
	Logger logrus.FieldLogger
}
