// Package debug contains optional utilities for inspecting a running server.
package debug

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

// StartPprofServer starts the default pprof HTTP server that can be accessed
// via localhost to get runtime information about the server.
// See https://golang.org/pkg/net/http/pprof/
func StartPprofServer(logger *logrus.Logger, port int) {
	listenerAddr := fmt.Sprintf("localhost:%d", port)
	logger.Infof("starting pprof server on %s", listenerAddr)

	go func() {
		if err := http.ListenAndServe(listenerAddr, nil); err != nil {
			logger.Infof("error starting pprof server: %s", err)
		}
	}()
}

// PrintMessage dumps a parsed client message to the logger. Only wired up
// when packet logging is enabled in the config.
func PrintMessage(logger *logrus.Logger, connID int, msg interface{}) {
	logger.Debugf("client %d sent: %s", connID, spew.Sdump(msg))
}
