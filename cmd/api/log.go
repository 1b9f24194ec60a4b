package main

import (
	"encoding/json"
	"log"
	"time"
)

func logEvent(loc *time.Location, msg string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	data["msg"] = msg
	if _, ok := data["level"]; !ok {
		if _, failed := data["error"]; failed {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal server log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
