package yaml

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/fwojciec/ohscrap"
	"gopkg.in/yaml.v3"
)

// Job is a crawl described in a file: where to start, what to extract and
// how to crawl.
//
//	location: https://example.com/posts/{n}
//	selector:
//	  title: h1
//	  links: ["a.next@href", {title: h1}]
//	config:
//	  strict: true
//	  retry: {times: 5, interval: 2s}
type Job struct {
	Location string
	Selector ohscrap.Selector
	Config   ohscrap.Config
}

type jobFile struct {
	Location string         `yaml:"location"`
	Selector yaml.Node      `yaml:"selector"`
	Config   ohscrap.Config `yaml:"config"`
}

// LoadJob reads and parses the job file at path.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ohscrap.Errorf(ohscrap.ENOTFOUND, "job file %q not found", path)
	} else if err != nil {
		return nil, err
	}
	return ParseJob(data)
}

// ParseJob parses a job document. Config fields left out keep the values
// of ohscrap.NewConfig; unknown fields are rejected. The selector is
// optional so a file can carry settings alone.
func ParseJob(data []byte) (*Job, error) {
	f := jobFile{Config: ohscrap.NewConfig()}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, ohscrap.Errorf(ohscrap.EINVALID, "parsing job: %v", err)
	}

	if err := f.Config.Validate(); err != nil {
		return nil, err
	}

	job := &Job{Location: f.Location, Config: f.Config}
	if f.Selector.Kind != 0 {
		sel, err := DecodeSelector(&f.Selector)
		if err != nil {
			return nil, err
		}
		if err := ohscrap.Validate(sel); err != nil {
			return nil, err
		}
		job.Selector = sel
	}
	return job, nil
}
