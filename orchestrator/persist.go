package orchestrator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/maastricht-university/speaker-split/corpus"
)

type output struct {
	f *os.File
	w *corpus.Writer
}

// outputs holds the train/dev/test files for one run.
type outputs struct {
	train, dev, test output
}

func create(path string) (output, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return output{}, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return output{}, err
	}
	return output{f: f, w: corpus.NewWriter(f)}, nil
}

func openOutputs(train, dev, test string) (*outputs, error) {
	var o outputs
	var err error
	if o.train, err = create(train); err != nil {
		return nil, fmt.Errorf("create %s: %w", train, err)
	}
	if o.dev, err = create(dev); err != nil {
		o.close()
		return nil, fmt.Errorf("create %s: %w", dev, err)
	}
	if o.test, err = create(test); err != nil {
		o.close()
		return nil, fmt.Errorf("create %s: %w", test, err)
	}
	return &o, nil
}

func (o *outputs) sinks() Sinks {
	return Sinks{Train: o.train.w, Dev: o.dev.w, Test: o.test.w}
}

func (o *outputs) flush() error {
	var errs []error
	for _, out := range []output{o.train, o.dev, o.test} {
		if err := out.w.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("flush %s: %w", out.f.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (o *outputs) close() {
	for _, out := range []output{o.train, o.dev, o.test} {
		if out.f != nil {
			_ = out.f.Close()
		}
	}
}

func writeYAML(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
