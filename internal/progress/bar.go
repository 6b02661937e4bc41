package progress

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Bar shows bytes hashed for one directory pass
type Bar struct {
	bar *progressbar.ProgressBar
}

func New(out io.Writer, totalBytes int64, description string) *Bar {
	b := &Bar{}
	b.bar = progressbar.NewOptions64(
		totalBytes,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(120*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return b
}

func (b *Bar) AddBytes(n int64) {
	if n <= 0 {
		return
	}
	_ = b.bar.Add64(n)
}

func (b *Bar) Close() {
	_ = b.bar.Finish()
}
