package testclips

// HTTP status code constants.
const (
	StatusOK      = 200
	StatusCreated = 201
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	phaseStep            = 0.7 // radians between consecutive generated clips
	headingStep          = 0.4 // radians between consecutive generated clips
)
