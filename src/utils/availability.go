package utils

import (
	"rms/src/models"
	"rms/src/types"

	"gorm.io/gorm"
)

// FindCandidateTables lists tables that can seat at least minCapacity
// guests, tightest fit first so small parties do not burn large tables.
func FindCandidateTables(tx *gorm.DB, minCapacity int, inServiceOnly bool) ([]models.DiningTable, error) {
	q := tx.Model(&models.DiningTable{}).Where("capacity >= ?", minCapacity)
	if inServiceOnly {
		q = q.Where("available = ?", true)
	}
	var tables []models.DiningTable
	if err := q.Order("capacity asc").Order("number asc").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// FindConflictingTableIDs returns the ids of tables already held during the
// given slot on the given date. Only pending and confirmed reservations
// count; excludeID keeps a reservation being edited out of its own way.
// Overlap is true interval overlap at minute granularity, not hour-bucket
// equality.
func FindConflictingTableIDs(tx *gorm.DB, date string, startMinute int, durationMinutes int, excludeID uint) (map[uint]bool, error) {
	q := tx.Model(&models.Reservation{}).
		Where("date = ?", date).
		Where("table_id IS NOT NULL").
		Where("status IN ?", types.ActiveReservationStatuses)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var held []models.Reservation
	if err := q.Find(&held).Error; err != nil {
		return nil, err
	}
	conflicts := map[uint]bool{}
	for _, r := range held {
		start, err := ParseClock(r.Time)
		if err != nil {
			continue
		}
		duration := r.Duration
		if SlotOverlaps(startMinute, durationMinutes, start, DurationOrDefault(&duration)) {
			conflicts[*r.TableID] = true
		}
	}
	return conflicts, nil
}

// QueryAvailability composes the capacity lookup with the conflict scan and
// reports which in-service tables remain free for the requested slot.
func QueryAvailability(tx *gorm.DB, params *types.AvailabilityQueryParams) (*types.APIResponseAvailability, error) {
	startMinute, err := ParseClock(params.Time)
	if err != nil {
		return nil, err
	}
	candidates, err := FindCandidateTables(tx, params.PartySize, true)
	if err != nil {
		return nil, err
	}
	conflicts, err := FindConflictingTableIDs(tx, params.Date, startMinute, DurationOrDefault(nil), 0)
	if err != nil {
		return nil, err
	}
	report := types.APIResponseAvailability{
		Date:      params.Date,
		Time:      params.Time,
		PartySize: params.PartySize,
		Suitable:  len(candidates),
		Available: []types.APIResponseTable{},
	}
	for _, table := range candidates {
		if conflicts[table.ID] {
			report.Booked += 1
			continue
		}
		report.Available = append(report.Available, MapTable(&table))
	}
	return &report, nil
}
