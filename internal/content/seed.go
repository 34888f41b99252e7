package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/usecase"

	"gopkg.in/yaml.v3"
)

// SeedFile is the layout of a seed document. Every section is optional.
type SeedFile struct {
	Home        map[string]interface{}  `yaml:"home"`
	About       map[string]interface{}  `yaml:"about"`
	Contact     map[string]interface{}  `yaml:"contact"`
	Members     map[string]interface{}  `yaml:"members"`
	Gallery     map[string]interface{}  `yaml:"gallery"`
	Submissions []model.SubmissionInput `yaml:"submissions"`
}

// SeedResult counts what a seed run wrote.
type SeedResult struct {
	Documents   []model.Domain
	Albums      int
	Images      int
	Submissions int
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(r io.Reader) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Seed writes f through uc with the same write modes and validation as the API.
func Seed(ctx context.Context, uc *usecase.ContentUsecase, f *SeedFile) (*SeedResult, error) {
	result := &SeedResult{}

	sections := []struct {
		domain model.Domain
		data   map[string]interface{}
	}{
		{model.DomainHome, f.Home},
		{model.DomainAbout, f.About},
		{model.DomainContact, f.Contact},
		{model.DomainMembers, f.Members},
	}
	for _, s := range sections {
		if s.data == nil {
			continue
		}
		var fields model.Fields
		if err := jsonRoundTrip(s.data, &fields); err != nil {
			return result, fmt.Errorf("seed %s: %w", s.domain, err)
		}
		if err := uc.SaveDocument(ctx, s.domain, fields, s.domain.WriteMode()); err != nil {
			return result, fmt.Errorf("seed %s: %w", s.domain, err)
		}
		result.Documents = append(result.Documents, s.domain)
	}

	if f.Gallery != nil {
		var g model.Gallery
		if err := jsonRoundTrip(f.Gallery, &g); err != nil {
			return result, fmt.Errorf("seed gallery: %w", err)
		}
		if g.Albums == nil {
			g.Albums = []model.Album{}
		}
		if g.Images == nil {
			g.Images = []model.Image{}
		}
		if err := uc.ReplaceGallery(ctx, &g); err != nil {
			return result, fmt.Errorf("seed gallery: %w", err)
		}
		result.Albums, result.Images = len(g.Albums), len(g.Images)
	}

	if len(f.Submissions) > 0 {
		subs, err := uc.ImportSubmissions(ctx, f.Submissions)
		if err != nil {
			return result, fmt.Errorf("seed submissions: %w", err)
		}
		result.Submissions = len(subs)
	}
	return result, nil
}

// jsonRoundTrip normalises YAML-decoded values to the JSON shapes the
// usecases validate against.
func jsonRoundTrip(src, dst interface{}) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
