package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	fx "github.com/robotalks/romi.go/pkg/framework"
	"github.com/robotalks/romi.go/pkg/romi"
)

func init() {
	romi.SetupFlags()
}

func main() {
	flag.Parse()

	conf := romi.NewConfig()
	console, pump := conf.MustNewConsole()
	robot := conf.MustNewRobot(fx.SystemClock{}, console)

	err := fx.NewRunner().
		HandleSignals().
		Go(fx.NamedRun("console", pump), robot).
		Wait()
	if err != nil {
		log.Fatalln(err)
	}
}
