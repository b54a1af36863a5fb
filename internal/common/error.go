package common

import "fmt"

var (
	ErrInvalidScanRoot   = fmt.Errorf("invalid directory to scan")
	ErrScanDirRequired   = fmt.Errorf("directory to scan is required")
	ErrRecipientRequired = fmt.Errorf("recipient address is required")
	ErrSenderRequired    = fmt.Errorf("sender address is required")
	ErrInvalidAge        = fmt.Errorf("age must not be negative")
	ErrUnknownPolicy     = fmt.Errorf("unknown timestamp policy")
	ErrUnknownLogLevel   = fmt.Errorf("unknown log level")
	ErrUnknownTLSPolicy  = fmt.Errorf("unknown tls policy")

	ErrScanHasAlreadyStarted = fmt.Errorf("scan has already started")
)
