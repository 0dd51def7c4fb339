package main

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/streams.go/pkg/env"
	"github.com/robotalks/streams.go/pkg/publish/mqtt"
	"github.com/robotalks/streams.go/pkg/publish/pb"
)

var (
	mqttURL = "mqtt://localhost:1883/streams/"
	topic   = "#"
)

func init() {
	if val := os.Getenv("STREAMS_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&topic, "topic", topic, "Topic pattern under the prefix, e.g. DEVICE/+.")
	env.LogToStderr()
}

func main() {
	flag.Parse()

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		glog.Exitln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		glog.Exitln(token.Error())
	}
	defer q.Close()

	q.Sub(topic, func(topic string, payload []byte) {
		m, err := pb.Decode(payload)
		if err != nil {
			glog.Warningf("%s: bad message: %v", topic, err)
			return
		}
		glog.Infof("%s: %s %s", topic, m.Time().Format("15:04:05.000000"), m.String())
	})
	<-(chan struct{})(nil)
}
