package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// newProgressBar reports scanned archives on w.
func newProgressBar(w io.Writer, archives int) *progressbar.ProgressBar {
	return progressbar.NewOptions(archives,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Scanning archives"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}
