package discovery

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/vk/aprxrelink/internal/ctxlog"
	"github.com/vk/aprxrelink/internal/testutil"
)

func TestConnectionsKeepFolderOrder(t *testing.T) {
	logger, buf := testutil.NewLogger(t)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	root := t.TempDir()
	pubDir := filepath.Join(root, "PublicationDB")
	capDir := filepath.Join(root, "CaptureDB")
	testutil.Touch(t, filepath.Join(pubDir, "gispubdb_extdata_PROD.sde"))
	testutil.Touch(t, filepath.Join(capDir, "giscapdb_ReadOnly_PRD.sde"))
	testutil.Touch(t, filepath.Join(capDir, "ReadOnly", "giscapdb_ReadOnly_PRD.sde"))
	missing := filepath.Join(root, "Nope")

	got := Connections(ctx, []string{pubDir, missing, capDir}, ".sde")

	want := []string{
		filepath.Join(pubDir, "gispubdb_extdata_PROD.sde"),
		filepath.Join(capDir, "giscapdb_ReadOnly_PRD.sde"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Connections() mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, buf.Records("WARN", "Invalid connection folder path.", "folder="+missing), 1)
	assert.Len(t, buf.Records("DEBUG", "Scanned connection folder.", "folder="+capDir, "count=1"), 1)
}

func TestProjectsWalkRecursively(t *testing.T) {
	logger, buf := testutil.NewLogger(t)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	root := t.TempDir()
	testutil.Touch(t, filepath.Join(root, "one.aprx"))
	testutil.Touch(t, filepath.Join(root, "team", "two.APRX"))
	testutil.Touch(t, filepath.Join(root, "team", "ignore.mxd"))
	file := testutil.Touch(t, filepath.Join(t.TempDir(), "single.aprx"))

	got := Projects(ctx, []string{root, file}, ".aprx")

	want := []string{
		filepath.Join(root, "one.aprx"),
		filepath.Join(root, "team", "two.APRX"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Projects() mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, buf.Records("WARN", "Invalid project folder path.", "folder="+file), 1)
	assert.Len(t, buf.Records("DEBUG", "Scanned project folder.", "folder="+root, "count=2"), 1)
}

func TestNoFolders(t *testing.T) {
	logger, _ := testutil.NewLogger(t)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	assert.Empty(t, Connections(ctx, nil, ".sde"))
	assert.Empty(t, Projects(ctx, nil, ".aprx"))
}
