package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcos-nsantos/presence-socket/internal/adapter/repository"
	"github.com/marcos-nsantos/presence-socket/internal/domain"
	"github.com/marcos-nsantos/presence-socket/internal/domain/entity"
	"github.com/marcos-nsantos/presence-socket/internal/pkg/pagination"
)

type DeviceRepo struct {
	pool *pgxpool.Pool
}

func NewDeviceRepo(pool *pgxpool.Pool) *DeviceRepo {
	return &DeviceRepo{pool: pool}
}

func (r *DeviceRepo) GetByID(ctx context.Context, id string) (*entity.Device, error) {
	query := `
		SELECT id, name, mode, jadwal_nyala, jadwal_mati, created_at, updated_at
		FROM alat_presensi
		WHERE id = $1
	`
	device, err := scanDevice(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device: %w", err)
	}
	return device, nil
}

func (r *DeviceRepo) ListSchedules(ctx context.Context) ([]entity.Device, error) {
	query := `
		SELECT id, name, mode, jadwal_nyala, jadwal_mati
		FROM alat_presensi
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying device schedules: %w", err)
	}
	defer rows.Close()

	var devices []entity.Device
	for rows.Next() {
		var (
			device entity.Device
			mode   string
		)
		if err := rows.Scan(&device.ID, &device.Name, &mode, &device.ActiveFrom, &device.ActiveUntil); err != nil {
			return nil, fmt.Errorf("scanning device schedule: %w", err)
		}
		device.Mode = entity.Mode(mode)
		devices = append(devices, device)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device schedules: %w", err)
	}

	return devices, nil
}

func (r *DeviceRepo) List(ctx context.Context, params repository.DeviceListParams) ([]entity.Device, *pagination.Info, error) {
	whereClause := "TRUE"
	var args []any
	argNum := 1

	if params.Mode != nil {
		whereClause = fmt.Sprintf("mode = $%d", argNum)
		args = append(args, string(*params.Mode))
		argNum++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM alat_presensi WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, nil, fmt.Errorf("counting devices: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, mode, jadwal_nyala, jadwal_mati, created_at, updated_at
		FROM alat_presensi
		WHERE %s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, whereClause, argNum, argNum+1)
	args = append(args, params.Pagination.Limit(), params.Pagination.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []entity.Device
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *device)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating devices: %w", err)
	}

	pageInfo := pagination.NewInfo(params.Pagination, total)
	return devices, pageInfo, nil
}

func scanDevice(row pgx.Row) (*entity.Device, error) {
	var (
		device entity.Device
		mode   string
	)
	err := row.Scan(
		&device.ID, &device.Name, &mode,
		&device.ActiveFrom, &device.ActiveUntil, &device.CreatedAt, &device.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	device.Mode = entity.Mode(mode)
	return &device, nil
}
