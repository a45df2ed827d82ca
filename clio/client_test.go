package clio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFieldIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/custom_fields", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "id,name", r.URL.Query().Get("fields"))

		fmt.Fprint(w, `{"data": [
			{"id": 101, "name": "ClientFullName"},
			{"id": 102, "name": "Accident Date"},
			{"id": 103, "name": "STATUTEOFLIMITATIONSDATE"}
		]}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	ids, err := client.CustomFieldIDs(context.Background())
	require.NoError(t, err)

	// Names are keyed lowercased so lookups are case-insensitive
	assert.Equal(t, map[string]int{
		"clientfullname":           101,
		"accident date":            102,
		"statuteoflimitationsdate": 103,
	}, ids)
}

func TestUpdateMatterFields(t *testing.T) {
	var gotPath string
	var gotBody struct {
		Data struct {
			CustomFieldValues []struct {
				CustomField struct {
					ID int `json:"id"`
				} `json:"custom_field"`
				Value string `json:"value"`
			} `json:"custom_field_values"`
		} `json:"data"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	fieldIDs := map[string]int{"clientfullname": 101, "accidentdate": 102}
	values := map[string]string{
		"ClientFullName": "FAUSTO CASTILLO",
		"AccidentDate":   "2022-11-16",
		"UnknownField":   "ignored",
	}

	count, err := client.UpdateMatterFields(context.Background(), "12345", fieldIDs, values)
	require.NoError(t, err)

	// The unmapped field is skipped, not sent
	assert.Equal(t, 2, count)
	assert.Equal(t, "/matters/12345", gotPath)
	assert.Len(t, gotBody.Data.CustomFieldValues, 2)

	byID := make(map[int]string)
	for _, fv := range gotBody.Data.CustomFieldValues {
		byID[fv.CustomField.ID] = fv.Value
	}
	assert.Equal(t, "FAUSTO CASTILLO", byID[101])
	assert.Equal(t, "2022-11-16", byID[102])
}

func TestChangeStage(t *testing.T) {
	var gotBody map[string]map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/matters/12345", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	require.NoError(t, client.ChangeStage(context.Background(), "12345", "Retainer Ready"))

	assert.Equal(t, "Retainer Ready", gotBody["data"]["stage"])
	assert.Equal(t, "open", gotBody["data"]["status"])
}

func TestCreateCalendarEntry(t *testing.T) {
	var gotBody map[string]map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/calendar_entries", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	err := client.CreateCalendarEntry(context.Background(), "12345",
		"SOL DEADLINE (8yr)", "File before this date", "2030-11-16")
	require.NoError(t, err)

	data := gotBody["data"]
	assert.Equal(t, "SOL DEADLINE (8yr)", data["summary"])
	assert.Equal(t, "2030-11-16T09:00:00-05:00", data["start_at"])
	assert.Equal(t, "2030-11-16T09:30:00-05:00", data["end_at"])
	assert.Equal(t, true, data["all_day"])
	assert.Equal(t, map[string]interface{}{"id": float64(12345)}, data["matter"])
}

func TestCreateCalendarEntryInvalidMatterID(t *testing.T) {
	client := NewClient("test-token")
	err := client.CreateCalendarEntry(context.Background(), "not-a-number", "s", "d", "2030-11-16")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid matter id")
}

func TestCreateNote(t *testing.T) {
	var gotBody map[string]map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/notes", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	require.NoError(t, client.CreateNote(context.Background(), "12345", "[AUTOMATED] Intake pipeline completed"))

	data := gotBody["data"]
	assert.Equal(t, "[AUTOMATED] Intake pipeline completed", data["detail"])
	assert.Equal(t, map[string]interface{}{"id": float64(12345), "type": "Matter"}, data["regarding"])
}

func TestAPIErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("bad-token", server.URL)
	_, err := client.CustomFieldIDs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
