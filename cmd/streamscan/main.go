package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/streams.go/pkg/device"
	"github.com/robotalks/streams.go/pkg/env"
	fx "github.com/robotalks/streams.go/pkg/framework"
	"github.com/robotalks/streams.go/pkg/metrics"
	"github.com/robotalks/streams.go/pkg/publish"
	"github.com/robotalks/streams.go/pkg/streams/formatfile"
	"github.com/robotalks/streams.go/pkg/streams/scan"
	"github.com/robotalks/streams.go/pkg/streams/source"
)

func init() {
	env.SetupFlags()
	env.LogToStderr()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := env.Default()
	set, err := formatfile.Load(conf.Formats)
	if err != nil {
		glog.Exitf("load formats %q: %v", conf.Formats, err)
	}
	scanner, err := set.NewScanner(nil)
	if err != nil {
		glog.Exitf("formats: %v", err)
	}
	reader, err := source.Open(conf.Source)
	if err != nil {
		glog.Exitf("open %q: %v", conf.Source, err)
	}
	deviceName := conf.DeviceName()
	sink, err := publish.NewSink(conf.Sink, "streamscan-"+deviceName)
	if err != nil {
		glog.Exitf("sink %q: %v", conf.Sink, err)
	}

	var recorder metrics.Recorder
	buf := set.NewBuffer()
	pump := source.NewPump(reader, buf)
	pump.Name = conf.Source
	pump.OnReceive = recorder.Received
	pump.OnDrop = recorder.Dropped

	drv := device.New(conf.Source, buf, scanner, set.NewRecord())
	drv.Observer = recorder
	drv.Emit = func(res scan.Result, rec *formatfile.Record) fx.Message {
		return publish.FromRecord(deviceName, conf.Source, rec, res)
	}

	loop := fx.NewLoop()
	loop.Interval = conf.Interval
	loop.Add(pump, drv, publish.NewPublisher(sink, 0))
	if conf.Metrics != "" {
		loop.AddRunnable(fx.NamedRun("metrics", metrics.Server(conf.Metrics)))
	}

	glog.Infof("scanning %q for %d format(s) as %s", conf.Source, len(set.Names()), deviceName)
	if err := fx.NewRunner().HandleSignals().Go(fx.NamedRun("loop", loop)).Wait(); err != nil {
		glog.Exitln(err)
	}
}
