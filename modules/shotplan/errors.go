package shotplan

import "errors"

var (
	ErrUnknownWorkflow        = errors.New("unknown workflow type")
	ErrUnknownShotID          = errors.New("unknown shot id")
	ErrMissingFitDescription  = errors.New("missing fit description")
	ErrUnsupportedAspectRatio = errors.New("unsupported aspect ratio")
	ErrUnsupportedResolution  = errors.New("unsupported resolution")
	ErrInvalidToggle          = errors.New("invalid toggle value")
)
