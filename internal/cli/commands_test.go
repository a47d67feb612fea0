package cli

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/prospect-tracker/internal/db"
	"github.com/evcraddock/prospect-tracker/internal/prospect"
	"github.com/evcraddock/prospect-tracker/internal/web"
)

// testAPI starts an API server on a fresh database and points the CLI at it.
func testAPI(t *testing.T) string {
	t.Helper()
	dbFile := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(dbFile)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	srv := httptest.NewServer(web.NewServer(prospect.NewStore(d)))
	t.Cleanup(srv.Close)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("PT_SERVER_URL", srv.URL)
	return dbFile
}

func addTestProspect(t *testing.T, name string, extra ...string) prospect.Prospect {
	t.Helper()
	args := append([]string{"add", "--format", "json",
		"--name", name, "--type", "Plumber", "--location", "Austin, TX", "--presence", "No website",
	}, extra...)
	out, err := executeCommand(args...)
	require.NoError(t, err, out)

	var p prospect.Prospect
	require.NoError(t, json.Unmarshal([]byte(out), &p), out)
	return p
}

func TestAddAndShow(t *testing.T) {
	testAPI(t)

	p := addTestProspect(t, "Joe's Plumbing", "--phone", "512-555-0100", "--years", "0")
	assert.Equal(t, prospect.StatusNotContacted, p.Status)
	require.NotNil(t, p.Phone)
	require.NotNil(t, p.YearsInBusiness, "an explicit zero is still set")
	assert.Equal(t, int64(0), *p.YearsInBusiness)
	assert.Nil(t, p.Email)

	out, err := executeCommand("show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Joe's Plumbing")
	assert.Contains(t, out, "Activity (1):")
	assert.Contains(t, out, "Prospect created")
}

func TestAddValidationError(t *testing.T) {
	testAPI(t)

	_, err := executeCommand("add", "--name", "X", "--type", "Plumber", "--location", "Austin",
		"--presence", "Other", "--status", "closed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")
}

func TestListFilters(t *testing.T) {
	testAPI(t)
	addTestProspect(t, "Alpha", "--status", "won")
	addTestProspect(t, "Beta")

	out, err := executeCommand("list", "--status", "won", "--format", "json")
	require.NoError(t, err)

	var props []prospect.Prospect
	require.NoError(t, json.Unmarshal([]byte(out), &props))
	require.Len(t, props, 1)
	assert.Equal(t, "Alpha", props[0].BusinessName)

	out, err = executeCommand("list", "--sort", "business_name", "--order", "asc")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 2 prospects")
}

func TestUpdate(t *testing.T) {
	testAPI(t)
	p := addTestProspect(t, "Joe's Plumbing", "--email", "joe@example.com", "--notes", "old")

	out, err := executeCommand("update", "1", "--status", "email_sent", "--clear", "email,notes", "--format", "json")
	require.NoError(t, err, out)

	var got prospect.Prospect
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, prospect.StatusEmailSent, got.Status)
	assert.Nil(t, got.Email)
	assert.Nil(t, got.Notes)
	assert.Equal(t, p.BusinessName, got.BusinessName)

	out, err = executeCommand("activity", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `Status changed from "Not Contacted" to "Email Sent"`)
}

func TestUpdateErrors(t *testing.T) {
	testAPI(t)
	addTestProspect(t, "Joe's Plumbing")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no fields", []string{"update", "1"}, "nothing to update"},
		{"unknown clear", []string{"update", "1", "--clear", "name"}, "cannot clear"},
		{"set and clear", []string{"update", "1", "--phone", "1", "--clear", "phone"}, "conflict"},
		{"missing prospect", []string{"update", "99", "--notes", "x"}, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestContact(t *testing.T) {
	testAPI(t)
	addTestProspect(t, "Joe's Plumbing")

	out, err := executeCommand("contact", "1", "--note", "Left voicemail", "--followup", "2030-03-01")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Contact logged for #1")
	assert.Contains(t, out, "2030-03-01")

	_, err = executeCommand("contact", "1", "--note", "again", "--followup", "soon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "next_followup")
}

func TestRemove(t *testing.T) {
	testAPI(t)
	addTestProspect(t, "Joe's Plumbing")

	out, err := executeCommand("remove", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Prospect #1 removed.")

	_, err = executeCommand("remove", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStatsAndFilters(t *testing.T) {
	testAPI(t)
	addTestProspect(t, "Alpha", "--status", "won")
	addTestProspect(t, "Beta", "--status", "lost")
	addTestProspect(t, "Gamma", "--status", "called")

	out, err := executeCommand("stats", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":3,"not_contacted":0,"in_progress":1,"won":1,"lost":1}`, out)

	out, err = executeCommand("filters")
	require.NoError(t, err)
	assert.Contains(t, out, "Plumber")
	assert.Contains(t, out, "Austin, TX")
	assert.Contains(t, out, "won")
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	dbFile := filepath.Join(dir, "import.db")
	seedFile := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedFile, []byte(`- business_name: Joe's Plumbing
  business_type: Plumber
  location: Austin, TX
  current_web_presence: No website
- business_name: Sweet Rolls
  business_type: Bakery
  location: Waco, TX
  current_web_presence: Facebook only
`), 0o644))

	out, err := executeCommand("import", seedFile, "--db", dbFile)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 2 prospects.")

	out, err = executeCommand("import", seedFile, "--db", dbFile, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"imported":2}`, out)
	assertProspectCount(t, dbFile, 4)

	_, err = executeCommand("import", seedFile, "--db", dbFile, "--reset")
	require.NoError(t, err)
	assertProspectCount(t, dbFile, 2)
}

func TestImportInvalidSeedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	dbFile := filepath.Join(dir, "import.db")
	seedFile := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(seedFile, []byte(`[
  {"business_name": "Good", "business_type": "Plumber", "location": "Austin", "current_web_presence": "Other"},
  {"business_name": "", "business_type": "Plumber", "location": "Austin", "current_web_presence": "Other"}
]`), 0o644))

	_, err := executeCommand("import", seedFile, "--db", dbFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 2")
	assertProspectCount(t, dbFile, 0)
}

func assertProspectCount(t *testing.T, dbFile string, want int) {
	t.Helper()
	d, err := db.Open(dbFile)
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	var n int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM prospects").Scan(&n))
	assert.Equal(t, want, n)
}

func TestProspectFlagsPatchOnlyChanged(t *testing.T) {
	var f prospectFlags
	cmd := &cobra.Command{Use: "x"}
	f.register(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--location", "Waco", "--years", "5"}))

	p, err := f.patch(cmd, []string{"followup"})
	require.NoError(t, err)

	require.NotNil(t, p.Location)
	assert.Equal(t, "Waco", *p.Location)
	require.True(t, p.YearsInBusiness.Set)
	assert.Equal(t, int64(5), *p.YearsInBusiness.Value)
	assert.True(t, p.NextFollowup.Set)
	assert.Nil(t, p.NextFollowup.Value)
	assert.Nil(t, p.BusinessName)
	assert.Nil(t, p.Status)
	assert.False(t, p.Phone.Set)
}
