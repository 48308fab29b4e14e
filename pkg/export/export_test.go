package export

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/ui"
)

func TestSnapshotStaticTree(t *testing.T) {
	desc := ui.El("div", ui.Class("card"),
		ui.El("h1", ui.Text("Hello")),
		ui.El("p", ui.Text("world")),
	)

	got := Snapshot(desc)
	want := `<div class="card"><h1>Hello</h1><p>world</p></div>`
	if got != want {
		t.Errorf("Snapshot = %q, want %q", got, want)
	}
}

func TestSnapshotRendersCurrentReactiveState(t *testing.T) {
	count := reactive.NewSignal(3)
	desc := ui.El("span", ui.Dyn(func() any { return count.Get() }))

	if got := Snapshot(desc); got != "<span>3</span>" {
		t.Errorf("Snapshot = %q, want <span>3</span>", got)
	}

	count.Set(7)
	if got := Snapshot(desc); got != "<span>7</span>" {
		t.Errorf("Snapshot after set = %q, want <span>7</span>", got)
	}
}

func TestSnapshotNil(t *testing.T) {
	if got := Snapshot(nil); got != "" {
		t.Errorf("Snapshot(nil) = %q, want empty", got)
	}
}

func TestPageWrapsBody(t *testing.T) {
	got := Page("A <b> title", "<p>hi</p>")

	if !strings.Contains(got, "<title>A &lt;b&gt; title</title>") {
		t.Errorf("title not escaped: %q", got)
	}
	if !strings.Contains(got, "<p>hi</p>") {
		t.Errorf("body missing: %q", got)
	}
	if !strings.HasPrefix(got, "<!DOCTYPE html>") {
		t.Errorf("missing doctype: %q", got)
	}
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3PublisherPrefixesKeys(t *testing.T) {
	fake := &fakeS3{}
	pub := NewS3Publisher(fake, "bucket", "site")

	if err := pub.Publish(context.Background(), "/index.html", "<p>x</p>"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", len(fake.inputs))
	}
	in := fake.inputs[0]
	if *in.Bucket != "bucket" {
		t.Errorf("bucket = %q", *in.Bucket)
	}
	if *in.Key != "site/index.html" {
		t.Errorf("key = %q, want site/index.html", *in.Key)
	}
	if *in.ContentType != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", *in.ContentType)
	}
	body, _ := io.ReadAll(in.Body)
	if string(body) != "<p>x</p>" {
		t.Errorf("body = %q", body)
	}
}

func TestS3PublisherWrapsErrors(t *testing.T) {
	cause := errors.New("boom")
	pub := NewS3Publisher(&fakeS3{err: cause}, "bucket", "")

	err := pub.Publish(context.Background(), "a.html", "x")
	if err == nil {
		t.Fatal("Publish returned nil on client failure")
	}
	if !errors.Is(err, cause) {
		t.Errorf("error does not wrap cause: %v", err)
	}
}
