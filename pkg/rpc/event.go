package rpc

import (
	"encoding/json"
)

// EventContent is a notification pushed to the ws subscribers.
type EventContent interface {
	Event() string
	Data() interface{}
	JSONData() ([]byte, error)
}

func NewEventContent(event string, data interface{}) EventContent {
	return &eventContent{
		event: event,
		data:  data,
	}
}

type eventContent struct {
	event string
	data  interface{}
}

func (e *eventContent) Event() string {
	return e.event
}

func (e *eventContent) Data() interface{} {
	return e.data
}

func (e *eventContent) JSONData() ([]byte, error) {
	return json.Marshal(e.data)
}
