package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	corecontext "fuelrecon/internal/core/context"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/domain/dip"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry is one recorded dip batch submission. Payloads above the
// compression threshold are stored zstd-compressed.
type AuditEntry struct {
	ID                uuid.UUID       `db:"id"`
	StationID         string          `db:"station_id"`
	Date              time.Time       `db:"date"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	TraceID           string          `db:"trace_id"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditService records the audit trail of dip batch submissions.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes, default 10KB
}

// Compile-time check that AuditService implements dip.AuditRecorder.
var _ dip.AuditRecorder = (*AuditService)(nil)

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// RecordDipBatch persists the submitted batch payload for a station-day.
func (s *AuditService) RecordDipBatch(ctx context.Context, stationID string, date time.Time, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	entry := AuditEntry{
		ID:        uuid.New(),
		StationID: stationID,
		Date:      period.DayOf(date),
		Payload:   payloadJSON,
		TraceID:   corecontext.GetTraceID(ctx),
		CreatedAt: time.Now().UTC(),
	}

	// Compress large payloads
	entry.CompressionAlgo = CompressionNone
	if len(entry.Payload) > s.compressThreshold {
		entry.PayloadCompressed = s.encoder.EncodeAll(entry.Payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO dip_audit (
			id, station_id, date, payload, payload_compressed,
			compression_algo, trace_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql,
		entry.ID, entry.StationID, entry.Date,
		entry.Payload, entry.PayloadCompressed, entry.CompressionAlgo,
		entry.TraceID, entry.CreatedAt,
	)

	return err
}

// GetStationHistory retrieves recent batch submissions for a station,
// newest first, payloads decompressed.
func (s *AuditService) GetStationHistory(ctx context.Context, stationID string, limit int) ([]AuditEntry, error) {
	sql := `
		SELECT id, station_id, date, payload, payload_compressed,
			   compression_algo, trace_id, created_at
		FROM dip_audit
		WHERE station_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, stationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		err := rows.Scan(
			&e.ID, &e.StationID, &e.Date, &e.Payload, &e.PayloadCompressed,
			&e.CompressionAlgo, &e.TraceID, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.PayloadCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
			e.Payload = decompressed
			e.PayloadCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
