package config

type WorkerKeyStruct struct {
	RatingEventsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	RatingEventsQueue: "rating_events_queue",
}
