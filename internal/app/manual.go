package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/Adda-Baaj/dyk-notifier/internal/config"
	"github.com/Adda-Baaj/dyk-notifier/internal/domain"
	"github.com/Adda-Baaj/dyk-notifier/internal/logger"
	"github.com/Adda-Baaj/dyk-notifier/internal/notifier"
	"github.com/Adda-Baaj/dyk-notifier/pkg/publishers"
)

const stdinInput = "-"

// Manual notifies contributors from a prepared {contributor: nomination} mapping, optionally
// asking the operator before every edit.
type Manual struct {
	cfg    *config.Config
	writer notifier.TalkPageWriter
	fanout *publishers.Fanout
	in     *bufio.Reader
	out    io.Writer
	runID  string
	log    logger.Logger
}

// NewManual builds the notify-only runtime. in supplies the mapping when input_file is "-"
// and the answers to confirmation prompts; prompts go to out.
func NewManual(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log logger.Logger) (*Manual, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	wiki, err := newWikiClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	fanout, err := newEventFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return newManual(cfg, wiki, fanout, in, out, log), nil
}

func newManual(cfg *config.Config, writer notifier.TalkPageWriter, fanout *publishers.Fanout, in io.Reader, out io.Writer, log logger.Logger) *Manual {
	if in == nil {
		in = strings.NewReader("")
	}
	if out == nil {
		out = io.Discard
	}
	return &Manual{
		cfg:    cfg,
		writer: writer,
		fanout: fanout,
		in:     bufio.NewReader(in),
		out:    out,
		runID:  uuid.NewString(),
		log:    logger.Ensure(log),
	}
}

// Run reads the mapping and notifies every contributor in it.
func (m *Manual) Run(ctx context.Context) error {
	if m == nil || m.writer == nil {
		return fmt.Errorf("manual notifier is not initialized")
	}
	defer closeFanout(m.fanout, m.log)

	targets, err := m.readTargets()
	if err != nil {
		return err
	}
	m.log.InfoObj("notification targets loaded", "run_meta", map[string]any{
		"run_id":       m.runID,
		"targets":      len(targets),
		"resume_count": m.cfg.ResumeCount,
		"dry_run":      m.cfg.DryRun,
	})

	opts := notifier.Options{
		Notice:     noticeFromConfig(m.cfg),
		Bot:        m.cfg.BotEdit,
		DryRun:     m.cfg.DryRun,
		Events:     m.fanout,
		RunID:      m.runID,
		StartCount: m.cfg.ResumeCount,
	}
	if m.cfg.Confirm {
		opts.Confirm = m.confirm
	}

	report, err := notifier.New(m.writer, opts, m.log).Notify(ctx, targets)
	fmt.Fprintf(m.out, "Notified %d contributors (%d failed).\n", m.cfg.ResumeCount+report.Notified, report.Failed)
	return err
}

// readTargets decodes the mapping from input_file, or from one line of input when it is "-".
// Every entry needs a contributor and a nomination; a single bad entry rejects the input.
func (m *Manual) readTargets() (domain.Targets, error) {
	var raw []byte
	if path := strings.TrimSpace(m.cfg.InputFile); path != "" && path != stdinInput {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read input file: %w", err)
		}
		raw = data
	} else {
		line, err := m.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read input: %w", err)
		}
		raw = []byte(line)
	}

	var decoded map[string]*string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode input mapping: %w", err)
	}

	targets := make(domain.Targets, len(decoded))
	for contributor, nomination := range decoded {
		contributor = strings.TrimSpace(contributor)
		if contributor == "" {
			return nil, errors.New("input mapping has an empty contributor")
		}
		if nomination == nil || strings.TrimSpace(*nomination) == "" {
			return nil, fmt.Errorf("input mapping has no nomination for %q", contributor)
		}
		targets[contributor] = strings.TrimSpace(*nomination)
	}
	return targets, nil
}

// confirm prompts before an edit. Only "n" stops; any other answer continues.
func (m *Manual) confirm(contributor, nomination string) (bool, error) {
	fmt.Fprintf(m.out, "Notify %s about %s.\nContinue (y/n)? ", contributor, nomination)
	answer, err := m.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || answer == "") {
		return false, fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(answer) != "n", nil
}
