package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/service"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/store"
)

func TestInitiateLogGeneration(t *testing.T) {
	t.Parallel()

	t.Run("accepts and returns the task handle", func(t *testing.T) {
		t.Parallel()
		taskID := uuid.New()
		svc := new(mockBuildLogService)
		svc.On("Initiate", mock.Anything, mustParseRef(t, "5")).Return(taskID, nil).Once()
		handler := NewBuildLogHandler(svc, nil)

		req := withRouteParam(t,
			httptest.NewRequest(http.MethodPost, "/builds/5/generate-log", nil),
			"identifier", "5")
		rr := doRequest(handler.InitiateLogGeneration, req)

		require.Equal(t, http.StatusAccepted, rr.Code)
		var resp TaskInitiatedResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, taskID, resp.TaskID)
		svc.AssertExpectations(t)
	})

	t.Run("responds 404 for unknown build", func(t *testing.T) {
		t.Parallel()
		svc := new(mockBuildLogService)
		svc.On("Initiate", mock.Anything, mock.Anything).Return(uuid.Nil, store.ErrBuildNotFound).Once()
		handler := NewBuildLogHandler(svc, nil)

		req := withRouteParam(t,
			httptest.NewRequest(http.MethodPost, "/builds/999/generate-log", nil),
			"identifier", "999")
		rr := doRequest(handler.InitiateLogGeneration, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Build not found")
	})

	t.Run("responds 400 for blank identifier", func(t *testing.T) {
		t.Parallel()
		svc := new(mockBuildLogService)
		handler := NewBuildLogHandler(svc, nil)

		req := withRouteParam(t,
			httptest.NewRequest(http.MethodPost, "/builds/%20/generate-log", nil),
			"identifier", "%20")
		rr := doRequest(handler.InitiateLogGeneration, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "Initiate", mock.Anything, mock.Anything)
	})
}

func TestGetLogStatus(t *testing.T) {
	t.Parallel()

	t.Run("returns a pending record without a file path", func(t *testing.T) {
		t.Parallel()
		taskID := uuid.New()
		svc := new(mockBuildLogService)
		svc.On("GetStatus", mock.Anything, taskID).
			Return(domain.NewPendingTaskStatus(taskID), nil).Once()
		handler := NewBuildLogHandler(svc, nil)

		req := withRouteParam(t,
			httptest.NewRequest(http.MethodGet, "/builds/log-status/"+taskID.String(), nil),
			"taskId", taskID.String())
		rr := doRequest(handler.GetLogStatus, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got domain.TaskStatus
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, taskID, got.Handle)
		assert.Equal(t, domain.TaskStatePending, got.State)
		assert.NotContains(t, rr.Body.String(), "filePath")
		svc.AssertExpectations(t)
	})

	t.Run("returns the file path once completed", func(t *testing.T) {
		t.Parallel()
		taskID := uuid.New()
		status := domain.NewPendingTaskStatus(taskID).Completed("/var/logs/Stone_Keep_build_log.txt")
		svc := new(mockBuildLogService)
		svc.On("GetStatus", mock.Anything, taskID).Return(status, nil).Once()
		handler := NewBuildLogHandler(svc, nil)

		req := withRouteParam(t,
			httptest.NewRequest(http.MethodGet, "/builds/log-status/"+taskID.String(), nil),
			"taskId", taskID.String())
		rr := doRequest(handler.GetLogStatus, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got domain.TaskStatus
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, domain.TaskStateCompleted, got.State)
		assert.Equal(t, "/var/logs/Stone_Keep_build_log.txt", got.FilePath)
	})

	t.Run("responds 400 for a malformed task id", func(t *testing.T) {
		t.Parallel()
		svc := new(mockBuildLogService)
		handler := NewBuildLogHandler(svc, nil)

		req := withRouteParam(t,
			httptest.NewRequest(http.MethodGet, "/builds/log-status/not-a-uuid", nil),
			"taskId", "not-a-uuid")
		rr := doRequest(handler.GetLogStatus, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid task ID format")
		svc.AssertNotCalled(t, "GetStatus", mock.Anything, mock.Anything)
	})

	t.Run("responds 404 for an unknown task", func(t *testing.T) {
		t.Parallel()
		taskID := uuid.New()
		svc := new(mockBuildLogService)
		svc.On("GetStatus", mock.Anything, taskID).
			Return(domain.TaskStatus{}, service.ErrTaskNotFound).Once()
		handler := NewBuildLogHandler(svc, nil)

		req := withRouteParam(t,
			httptest.NewRequest(http.MethodGet, "/builds/log-status/"+taskID.String(), nil),
			"taskId", taskID.String())
		rr := doRequest(handler.GetLogStatus, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Task not found")
	})
}

func TestDownloadLogFile(t *testing.T) {
	t.Parallel()

	t.Run("serves a completed file as an attachment", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "Stone_Keep_build_log.txt")
		require.NoError(t, os.WriteFile(path, []byte("Build Name: Stone Keep\n"), 0o644))

		taskID := uuid.New()
		svc := new(mockBuildLogService)
		svc.On("GetFile", mock.Anything, taskID).
			Return(service.LogFile{Path: path, Filename: "Stone_Keep_build_log.txt"}, nil).Once()
		handler := NewBuildLogHandler(svc, nil)

		req := withRouteParam(t,
			httptest.NewRequest(http.MethodGet, "/builds/log-file/"+taskID.String(), nil),
			"taskId", taskID.String())
		rr := doRequest(handler.DownloadLogFile, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, `attachment; filename="Stone_Keep_build_log.txt"`,
			rr.Header().Get("Content-Disposition"))
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
		assert.Equal(t, "Build Name: Stone Keep\n", rr.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("responds 202 while the task is pending", func(t *testing.T) {
		t.Parallel()
		taskID := uuid.New()
		svc := new(mockBuildLogService)
		svc.On("GetFile", mock.Anything, taskID).
			Return(service.LogFile{}, service.ErrTaskInProgress).Once()
		handler := NewBuildLogHandler(svc, nil)

		req := withRouteParam(t,
			httptest.NewRequest(http.MethodGet, "/builds/log-file/"+taskID.String(), nil),
			"taskId", taskID.String())
		rr := doRequest(handler.DownloadLogFile, req)

		require.Equal(t, http.StatusAccepted, rr.Code)
		var resp TaskPendingResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "log generation in progress", resp.Message)
	})

	t.Run("responds 404 when the task failed", func(t *testing.T) {
		t.Parallel()
		taskID := uuid.New()
		svc := new(mockBuildLogService)
		svc.On("GetFile", mock.Anything, taskID).
			Return(service.LogFile{}, fmt.Errorf("%w: build 9 vanished", service.ErrTaskFailed)).Once()
		handler := NewBuildLogHandler(svc, nil)

		req := withRouteParam(t,
			httptest.NewRequest(http.MethodGet, "/builds/log-file/"+taskID.String(), nil),
			"taskId", taskID.String())
		rr := doRequest(handler.DownloadLogFile, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Log generation failed")
		assert.NotContains(t, rr.Body.String(), "vanished")
	})

	t.Run("responds 404 when the file is gone", func(t *testing.T) {
		t.Parallel()
		taskID := uuid.New()
		svc := new(mockBuildLogService)
		svc.On("GetFile", mock.Anything, taskID).
			Return(service.LogFile{}, service.ErrLogFileMissing).Once()
		handler := NewBuildLogHandler(svc, nil)

		req := withRouteParam(t,
			httptest.NewRequest(http.MethodGet, "/builds/log-file/"+taskID.String(), nil),
			"taskId", taskID.String())
		rr := doRequest(handler.DownloadLogFile, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Log file not found")
	})

	t.Run("responds 400 for a malformed task id", func(t *testing.T) {
		t.Parallel()
		svc := new(mockBuildLogService)
		handler := NewBuildLogHandler(svc, nil)

		req := withRouteParam(t,
			httptest.NewRequest(http.MethodGet, "/builds/log-file/nope", nil),
			"taskId", "nope")
		rr := doRequest(handler.DownloadLogFile, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "GetFile", mock.Anything, mock.Anything)
	})
}
