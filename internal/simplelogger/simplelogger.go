package simplelogger

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"
)

var mu sync.Mutex

// Log is a minimal printf-style debug logger. It appends a timestamped line
// to the file named by the SNIPDOC_LOG_FILE environment variable.
//
// If SNIPDOC_LOG_FILE is unset/empty or the path can't be opened as a file,
// Log is a no-op.
func Log(format string, args ...any) {
	path := os.Getenv("SNIPDOC_LOG_FILE")
	if path == "" {
		return
	}

	// Serialize open/write/close to reduce interleaving within a single process.
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	var b bytes.Buffer
	fmt.Fprintf(&b, "%s ", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&b, format, args...)
	if b.Len() == 0 || b.Bytes()[b.Len()-1] != '\n' {
		_ = b.WriteByte('\n')
	}
	_, _ = f.Write(b.Bytes())
}
