package recorder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// FFmpegDevice captures microphone audio by shelling out to ffmpeg, encoding
// straight to ogg/opus so the upload needs no server-side conversion.
type FFmpegDevice struct {
	// Command is the capture binary, normally "ffmpeg".
	Command string
	// Input is the capture source passed to -i (a pulse/alsa device name).
	Input string
}

type ffmpegSession struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer

	// exited receives the process's Wait result exactly once, after the
	// stdout stream has drained.
	exited chan error

	mu  sync.Mutex
	buf bytes.Buffer
	err error
	wg  sync.WaitGroup
}

// Start launches the capture process. A failure to open the input device is
// reported as ErrPermissionDenied.
func (d *FFmpegDevice) Start(ctx context.Context) (Session, error) {
	command := d.Command
	if command == "" {
		command = "ffmpeg"
	}
	input := d.Input
	if input == "" {
		input = "default"
	}

	cmd := exec.CommandContext(ctx, command,
		"-loglevel", "error",
		"-f", "pulse",
		"-i", input,
		"-ac", "1",
		"-c:a", "libopus",
		"-b:a", "24k",
		"-f", "ogg",
		"pipe:1",
	)

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open capture pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", command, err)
	}

	s := &ffmpegSession{cmd: cmd, stdout: stdout, stderr: stderr, exited: make(chan error, 1)}
	s.wg.Add(1)
	go s.drain()
	go func() {
		// Wait only after the stdout stream drained, or Wait would close
		// the pipe underneath the reader.
		s.wg.Wait()
		s.exited <- cmd.Wait()
	}()

	// ffmpeg fails within moments when the input device is missing or
	// refused; a session is only handed back once that window has passed.
	select {
	case <-s.exited:
		msg := strings.TrimSpace(stderr.String())
		if isPermissionFailure(msg) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, msg)
		}
		return nil, fmt.Errorf("capture process exited: %s", msg)
	case <-time.After(150 * time.Millisecond):
	}

	return s, nil
}

func (s *ffmpegSession) drain() {
	defer s.wg.Done()
	chunk := make([]byte, 32*1024)
	for {
		n, err := s.stdout.Read(chunk)
		if n > 0 {
			s.mu.Lock()
			s.buf.Write(chunk[:n])
			s.mu.Unlock()
		}
		if err != nil {
			if err != io.EOF {
				s.mu.Lock()
				s.err = err
				s.mu.Unlock()
			}
			return
		}
	}
}

// Stop interrupts ffmpeg so it finalizes the ogg container, waits for the
// stream to drain and returns the captured bytes.
func (s *ffmpegSession) Stop() ([]byte, error) {
	if s.cmd.Process != nil {
		// SIGINT lets ffmpeg flush the container trailer.
		_ = s.cmd.Process.Signal(os.Interrupt)
	}

	select {
	case <-s.exited:
	case <-time.After(5 * time.Second):
		_ = s.cmd.Process.Kill()
		<-s.exited
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, fmt.Errorf("capture stream failed: %w", s.err)
	}
	if s.buf.Len() == 0 {
		return nil, fmt.Errorf("capture produced no audio: %s", strings.TrimSpace(s.stderr.String()))
	}
	return s.buf.Bytes(), nil
}

func (s *ffmpegSession) MimeType() string { return "audio/ogg" }

func (s *ffmpegSession) FileName() string { return "audio.ogg" }

func isPermissionFailure(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "connection refused")
}
