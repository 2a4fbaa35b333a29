package log

import (
	"io"
	"io/ioutil"
	"log"
	"os"
)

var (
	Trace   *log.Logger
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
)

func init() {
	Init(ioutil.Discard, ioutil.Discard, os.Stderr, os.Stderr)
}

func Init(
	traceHandle io.Writer,
	infoHandle io.Writer,
	warningHandle io.Writer,
	errorHandle io.Writer) {

	Trace = log.New(traceHandle,
		"TRACE: ",
		log.Ldate|log.Ltime|log.Lshortfile)

	Info = log.New(infoHandle,
		"INFO: ",
		log.Ldate|log.Ltime)

	Warning = log.New(warningHandle,
		"WARNING: ",
		log.Ldate|log.Ltime)

	Error = log.New(errorHandle,
		"ERROR: ",
		log.Ldate|log.Ltime|log.Lshortfile)
}

// InitLog wires the loggers to the process streams.
// HOMUS_TRACE=1 turns on trace output.
func InitLog() {
	var trace io.Writer
	if os.Getenv("HOMUS_TRACE") == "1" {
		trace = os.Stdout
	} else {
		trace = ioutil.Discard
	}

	Init(trace, os.Stdout, os.Stderr, os.Stderr)
}
