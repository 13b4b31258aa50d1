package impl

import (
	"fmt"
	"sort"
	"time"

	"github.com/ca-srg/tzbridge/domain"
	"github.com/ca-srg/tzbridge/domain/entity"
	"github.com/ca-srg/tzbridge/domain/repository"
	"github.com/ca-srg/tzbridge/domain/valueobject"
	usecase "github.com/ca-srg/tzbridge/usecase/interface"
)

// ConverterServiceImpl implements the ConverterService interface. It performs
// no logging and no I/O beyond the zone database and the injected clock, so a
// single instance serves any number of concurrent callers.
type ConverterServiceImpl struct {
	timezoneService repository.TimezoneService
	clock           repository.Clock
}

// NewConverterServiceImpl creates a new converter service implementation
func NewConverterServiceImpl(
	timezoneService repository.TimezoneService,
	clock repository.Clock,
) usecase.ConverterService {
	return &ConverterServiceImpl{
		timezoneService: timezoneService,
		clock:           clock,
	}
}

// Convert projects the request's civil time from the source timezone into the
// target timezone. The date is taken from the clock's current day as observed
// in the source timezone. Validation failures and daylight saving anomalies
// are reported as DomainError values, never as panics.
func (s *ConverterServiceImpl) Convert(request *entity.ConversionRequest) (result *usecase.ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = domain.ErrSystemError("convert", fmt.Errorf("%v", r))
		}
	}()

	if request == nil {
		return nil, domain.ErrSystemError("convert", fmt.Errorf("nil conversion request"))
	}

	// Resolve both zones before touching the time string so that callers get
	// zone problems reported first
	sourceLoc, locErr := s.timezoneService.LoadLocation(request.SourceZone())
	if locErr != nil {
		return nil, domain.ErrInvalidTimezoneWithCause(request.SourceZone(), "source", locErr)
	}

	targetLoc, locErr := s.timezoneService.LoadLocation(request.TargetZone())
	if locErr != nil {
		return nil, domain.ErrInvalidTimezoneWithCause(request.TargetZone(), "target", locErr)
	}

	timeOfDay, parseErr := valueobject.ParseTimeOfDay(request.Time())
	if parseErr != nil {
		return nil, domain.ErrInvalidTimeFormatWithCause(request.Time(), parseErr)
	}

	// The conversion date is today as the source timezone sees it, which can
	// differ from the server's local date near midnight
	year, month, day := s.clock.Now().In(sourceLoc).Date()
	sourceInstant := time.Date(year, month, day, timeOfDay.Hour(), timeOfDay.Minute(), 0, 0, sourceLoc)

	// Ambiguity must be decided before the gap heuristic: a repeated civil
	// time also trips the probe comparison below, but a skipped one can never
	// read back as its own wall clock fields, so this order loses nothing.
	if first, second, ambiguous := repeatedInstants(year, month, day, timeOfDay, sourceLoc); ambiguous {
		return nil, domain.ErrAmbiguousTime(
			request.Time(),
			request.SourceZone(),
			first.Format(time.RFC3339),
			second.Format(time.RFC3339),
		)
	}

	before := sourceInstant.Add(-time.Hour)
	after := sourceInstant.Add(time.Hour)
	if isSkippedTime(before, after) {
		return nil, domain.ErrSkippedTime(
			request.Time(),
			request.SourceZone(),
			before.Format(time.RFC3339),
			after.Format(time.RFC3339),
		)
	}

	if targetLoc == nil {
		return nil, domain.ErrConversionFailed(request.TargetZone(), "target location unavailable")
	}
	targetInstant := sourceInstant.In(targetLoc)

	source := valueobject.NewZonedInstant(sourceInstant, request.SourceZone())
	target := valueobject.NewZonedInstant(targetInstant, request.TargetZone())

	return &usecase.ConvertResult{
		ConvertedTime: target.CivilTime(),
		Source:        zoneView(source),
		Target:        zoneView(target),
	}, nil
}

// CurrentTime reports the current civil time in the given timezone. An empty
// timezone falls back to the detected system timezone.
func (s *ConverterServiceImpl) CurrentTime(timezone string) (result *usecase.CurrentTimeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = domain.ErrSystemError("current-time", fmt.Errorf("%v", r))
		}
	}()

	var loc *time.Location
	detectionMethod := "request"

	if timezone == "" {
		sysLoc, sysErr := s.timezoneService.SystemTimezone()
		if sysErr != nil || sysLoc == nil {
			sysLoc = time.UTC
		}
		loc = sysLoc
		detectionMethod = s.timezoneService.GetSystemTimezoneInfo().DetectionMethod
	} else {
		reqLoc, locErr := s.timezoneService.LoadLocation(timezone)
		if locErr != nil {
			return nil, domain.ErrInvalidTimezoneWithCause(timezone, "query", locErr)
		}
		loc = reqLoc
	}

	now := s.clock.Now().In(loc)
	_, offset := now.Zone()

	return &usecase.CurrentTimeResult{
		Timezone:        loc.String(),
		DateTime:        now.Format(time.RFC3339),
		Time:            now.Format("15:04"),
		Date:            now.Format("2006-01-02"),
		Offset:          valueobject.FormatOffset(offset),
		IsDST:           now.IsDST(),
		DetectionMethod: detectionMethod,
	}, nil
}

// zoneView flattens a ZonedInstant into the response shape
func zoneView(instant valueobject.ZonedInstant) usecase.ZoneView {
	return usecase.ZoneView{
		Time:     instant.CivilTime(),
		Timezone: instant.Zone(),
		Offset:   instant.Offset(),
		IsDST:    instant.IsDST(),
	}
}

// isSkippedTime reports whether the probes bracketing a resolved civil time
// indicate that the requested time fell into a daylight saving gap. Probes one
// hour out also flag times that merely sit within an hour of a transition,
// which is the accepted cost of keeping the check cheap and zone-data free.
func isSkippedTime(before, after time.Time) bool {
	_, beforeOffset := before.Zone()
	_, afterOffset := after.Zone()
	return dstGap(before.IsDST(), beforeOffset, after.IsDST(), afterOffset)
}

// dstGap decides the gap heuristic from the probe observations. A gap is
// reported only when the DST flags differ AND the UTC offsets differ; a flag
// flip without a clock shift does not count.
func dstGap(beforeDST bool, beforeOffset int, afterDST bool, afterOffset int) bool {
	return beforeDST != afterDST && beforeOffset != afterOffset
}

// repeatedInstants reports whether the civil fields occur twice in loc during
// a daylight saving fall-back, returning both instants in chronological order.
// The fields are resolved against every UTC offset observed at the nominal
// instant and one hour to either side; a candidate counts only when it reads
// back as exactly the requested wall clock fields in loc.
func repeatedInstants(year int, month time.Month, day int, timeOfDay valueobject.TimeOfDay, loc *time.Location) (first, second time.Time, repeated bool) {
	nominal := time.Date(year, month, day, timeOfDay.Hour(), timeOfDay.Minute(), 0, 0, loc)

	offsets := make(map[int]struct{})
	for _, probe := range []time.Time{nominal.Add(-time.Hour), nominal, nominal.Add(time.Hour)} {
		_, offset := probe.Zone()
		offsets[offset] = struct{}{}
	}

	candidates := make(map[int64]time.Time)
	for offset := range offsets {
		wall := time.Date(year, month, day, timeOfDay.Hour(), timeOfDay.Minute(), 0, 0, time.UTC)
		candidate := wall.Add(-time.Duration(offset) * time.Second).In(loc)

		cYear, cMonth, cDay := candidate.Date()
		if cYear == year && cMonth == month && cDay == day &&
			candidate.Hour() == timeOfDay.Hour() && candidate.Minute() == timeOfDay.Minute() {
			candidates[candidate.Unix()] = candidate
		}
	}

	if len(candidates) < 2 {
		return time.Time{}, time.Time{}, false
	}

	ordered := make([]time.Time, 0, len(candidates))
	for _, candidate := range candidates {
		ordered = append(ordered, candidate)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	return ordered[0], ordered[1], true
}
