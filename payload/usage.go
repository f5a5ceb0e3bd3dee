package payload

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/icos-cp/cpb/internal/version"
)

// usageReport is the portal's usage-accounting payload for one binary
// download.
type usageReport struct {
	BinaryFileDownload usageParams `json:"BinaryFileDownload"`
}

type usageParams struct {
	Params struct {
		ObjID    string   `json:"objId"`
		Columns  []string `json:"columns"`
		Library  string   `json:"library"`
		Version  string   `json:"version"`
		Internal string   `json:"internal"`
	} `json:"params"`
}

// reportUsage posts one usage record, best effort. Any failure is logged
// at debug level and swallowed; usage accounting must never fail a data
// fetch.
func (s *Store) reportUsage(ctx context.Context, id string, columns []string, local bool) {
	if s.usageURL == "" {
		return
	}

	var report usageReport
	report.BinaryFileDownload.Params.ObjID = id
	report.BinaryFileDownload.Params.Columns = columns
	report.BinaryFileDownload.Params.Library = version.Library
	report.BinaryFileDownload.Params.Version = version.Release
	report.BinaryFileDownload.Params.Internal = strconv.FormatBool(local)

	body, err := json.Marshal(report)
	if err != nil {
		s.logger.Debug("usage report marshal failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), usageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.usageURL, bytes.NewReader(body))
	if err != nil {
		s.logger.Debug("usage report request failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		s.logger.Debug("usage report failed", zap.Error(err))
		return
	}
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	resp.Body.Close()
}
