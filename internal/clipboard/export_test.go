package clipboard

import sysclip "github.com/atotto/clipboard"

func isUnsupported() bool { return sysclip.Unsupported }
