package staticcmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-static/internal/generator"
	"github.com/goliatone/go-static/pkg/interfaces"
)

type stubGenerator struct {
	buildOpts  *generator.BuildOptions
	buildErr   error
	cleanCalls int
	cleanErr   error
}

func (s *stubGenerator) Build(_ context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	s.buildOpts = &opts
	return &generator.BuildResult{PagesBuilt: 3, DryRun: opts.DryRun}, s.buildErr
}

func (s *stubGenerator) Clean(context.Context) error {
	s.cleanCalls++
	return s.cleanErr
}

type stubMarkdown struct {
	loadPath string
	loadErr  error
}

func (s *stubMarkdown) Load(_ context.Context, path string, _ interfaces.LoadOptions) (*interfaces.Document, error) {
	s.loadPath = path
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return &interfaces.Document{
		Path:     path,
		BodyHTML: []byte("<p>preview</p>"),
	}, nil
}

func (s *stubMarkdown) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, *interfaces.LoadReport, error) {
	return nil, &interfaces.LoadReport{}, nil
}

func (s *stubMarkdown) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdown) RenderDocument(context.Context, *interfaces.Document, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func enabledGates() FeatureGates {
	return FeatureGates{GeneratorEnabled: func() bool { return true }}
}

func TestBuildSiteHandlerDeliversResult(t *testing.T) {
	svc := &stubGenerator{}
	var envelope ResultEnvelope
	handler := NewBuildSiteHandler(svc, nil, enabledGates())

	msg := BuildSiteCommand{
		Force:  true,
		Drafts: true,
		ResultCallback: func(e ResultEnvelope) {
			envelope = e
		},
	}
	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if svc.buildOpts == nil {
		t.Fatal("expected the generator to be invoked")
	}
	if !svc.buildOpts.Force || !svc.buildOpts.Drafts || svc.buildOpts.DryRun {
		t.Fatalf("unexpected build options %+v", *svc.buildOpts)
	}
	if envelope.Result == nil || envelope.Result.PagesBuilt != 3 {
		t.Fatalf("expected result envelope with build output, got %+v", envelope)
	}
	if envelope.Metadata["operation"] != "build" {
		t.Fatalf("unexpected metadata %v", envelope.Metadata)
	}
}

func TestBuildSiteHandlerForwardsPaths(t *testing.T) {
	svc := &stubGenerator{}
	handler := NewBuildSiteHandler(svc, nil, enabledGates())

	err := handler.Execute(context.Background(), BuildSiteCommand{
		Paths: []string{"posts/hello.md", "notes"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if svc.buildOpts == nil || len(svc.buildOpts.Paths) != 2 {
		t.Fatalf("expected path filter to reach the generator, got %+v", svc.buildOpts)
	}
}

func TestBuildSiteHandlerDisabledGate(t *testing.T) {
	svc := &stubGenerator{}
	handler := NewBuildSiteHandler(svc, nil, FeatureGates{})

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if err == nil {
		t.Fatal("expected error when the generator gate is off")
	}
	if !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
	if svc.buildOpts != nil {
		t.Fatal("generator must not run when the gate is off")
	}
}

func TestBuildSiteHandlerWrapsBuildError(t *testing.T) {
	buildErr := errors.New("render failed")
	svc := &stubGenerator{buildErr: buildErr}
	var envelope ResultEnvelope
	handler := NewBuildSiteHandler(svc, nil, enabledGates())

	err := handler.Execute(context.Background(), BuildSiteCommand{
		ResultCallback: func(e ResultEnvelope) { envelope = e },
	})
	if err == nil {
		t.Fatal("expected build error")
	}
	if !errors.Is(err, buildErr) {
		t.Fatalf("expected wrapped build error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if envelope.Result == nil {
		t.Fatal("partial results must still reach the callback")
	}
}

func TestDiffSiteHandlerForcesDryRun(t *testing.T) {
	svc := &stubGenerator{}
	var envelope ResultEnvelope
	handler := NewDiffSiteHandler(svc, nil, enabledGates())

	err := handler.Execute(context.Background(), DiffSiteCommand{
		ResultCallback: func(e ResultEnvelope) { envelope = e },
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if svc.buildOpts == nil || !svc.buildOpts.DryRun {
		t.Fatalf("diff must always run as a dry-run, got %+v", svc.buildOpts)
	}
	if envelope.Metadata["operation"] != "diff" {
		t.Fatalf("unexpected metadata %v", envelope.Metadata)
	}
}

func TestCleanSiteHandler(t *testing.T) {
	svc := &stubGenerator{}
	handler := NewCleanSiteHandler(svc, nil, enabledGates())

	if err := handler.Execute(context.Background(), CleanSiteCommand{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if svc.cleanCalls != 1 {
		t.Fatalf("expected one clean invocation, got %d", svc.cleanCalls)
	}
}

func TestPreviewFileHandlerRendersDocument(t *testing.T) {
	md := &stubMarkdown{}
	handler := NewPreviewFileHandler(md, nil)

	var doc *interfaces.Document
	err := handler.Execute(context.Background(), PreviewFileCommand{
		Path:   "posts/hello.md",
		Output: func(loaded *interfaces.Document) { doc = loaded },
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if md.loadPath != "posts/hello.md" {
		t.Fatalf("unexpected load path %q", md.loadPath)
	}
	if doc == nil || string(doc.BodyHTML) != "<p>preview</p>" {
		t.Fatalf("unexpected preview document %+v", doc)
	}
}

func TestPreviewFileHandlerRequiresPath(t *testing.T) {
	md := &stubMarkdown{}
	handler := NewPreviewFileHandler(md, nil)

	err := handler.Execute(context.Background(), PreviewFileCommand{})
	if err == nil {
		t.Fatal("expected validation error for empty path")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if md.loadPath != "" {
		t.Fatal("markdown service must not be called when validation fails")
	}
}
