package constants

const (
	StatusOK        = "ok"
	VideoStateReady = "READY"

	// redis list / amqp queue default name shared by server and worker
	EventQueue = "video_events"

	DataKeyFormat = "videos/%d/data"
)
