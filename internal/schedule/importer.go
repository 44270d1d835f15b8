package schedule

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"rolldepot/internal/models"
)

// Importer runs one synchronous workbook import. It fully consumes its input
// and produces a complete replacement aggregate before returning; callers
// must not interleave imports.
type Importer struct {
	Mappings map[string]string
	Diag     Diag

	// Now is the clock used when a row carries no validity date. Overridable
	// in tests; defaults to time.Now.
	Now func() time.Time
}

// Summary reports what one import pass did.
type Summary struct {
	Records           int `json:"records"`
	SkippedSheets     int `json:"skippedSheets"`
	DuplicatesSkipped int `json:"duplicatesSkipped"`
	Stations          int `json:"stations"`
	Vehicles          int `json:"vehicles"`
	Staff             int `json:"staff"`
	Trains            int `json:"trains"`
}

// ImportWorkbook parses a spreadsheet buffer into a fresh aggregate model.
// Sheets are visited in file order; sheets without data rows or without the
// mandatory headers are skipped and counted. The returned error is either
// the mappings precondition or a malformed-workbook failure; row-level
// problems never abort the import.
func (imp *Importer) ImportWorkbook(data []byte, fileName string) (*models.Model, Summary, error) {
	diag := diagOrNop(imp.Diag)
	var summary Summary

	if err := ValidateMapping(imp.Mappings); err != nil {
		diag.Error("import attempted without field mappings", map[string]any{
			"fileName": fileName,
		})
		return nil, summary, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		diag.Error("workbook could not be read", map[string]any{
			"fileName": fileName,
			"error":    err.Error(),
		})
		return nil, summary, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	diag.Info("workbook opened", map[string]any{
		"fileName":    fileName,
		"sheetsCount": len(f.GetSheetList()),
	})

	now := time.Now
	if imp.Now != nil {
		now = imp.Now
	}

	agg := newAggregator()
	globalRowID := 0

	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			diag.Warn("sheet could not be read", map[string]any{
				"sheet": sheetName,
				"error": err.Error(),
			})
			summary.SkippedSheets++
			continue
		}

		// A lone placeholder first sheet and any sheet without data rows are
		// silently skipped.
		if len(rows) < 2 {
			summary.SkippedSheets++
			continue
		}

		headers := make([]string, len(rows[0]))
		for i, h := range rows[0] {
			headers[i] = NormalizeCell(h).Text()
		}
		if missing := MissingMandatoryHeaders(headers); len(missing) > 0 {
			diag.Warn("sheet skipped: mandatory headers missing", map[string]any{
				"sheet":   sheetName,
				"missing": missing,
			})
			summary.SkippedSheets++
			continue
		}

		stationCode := NormalizeDepotCode(sheetName)
		isDepot := IsDepotSheet(sheetName)

		for rowIndex, cells := range rows[1:] {
			if !rowHasValues(cells) {
				continue
			}
			row := MapRow(imp.Mappings, headers, cells)

			// Rows duplicated across the two mirrored views of a depot sheet
			// collapse to one record.
			if isDepot {
				key := DedupeKey(row)
				if agg.seenKeys[key] {
					summary.DuplicatesSkipped++
					continue
				}
				agg.seenKeys[key] = true
			}

			globalRowID++
			agg.addRow(row, rowCoords{
				sheet:       sheetName,
				stationCode: stationCode,
				rowNumber:   rowIndex + 2,
				rowID:       globalRowID,
			}, now())
			summary.Records++
		}

		agg.addSheet(stationCode)
	}

	model := agg.finish(fileName, time.Now())
	summary.Stations = len(model.Stations)
	summary.Vehicles = len(model.Vehicles)
	summary.Staff = len(model.Staff)
	for _, day := range model.Trains {
		summary.Trains += len(day)
	}

	diag.Info("import finished", map[string]any{
		"fileName":          fileName,
		"stationsCount":     summary.Stations,
		"vehiclesCount":     summary.Vehicles,
		"staffCount":        summary.Staff,
		"trainsCount":       summary.Trains,
		"recordsCount":      summary.Records,
		"skippedSheets":     summary.SkippedSheets,
		"duplicatesSkipped": summary.DuplicatesSkipped,
	})

	return model, summary, nil
}

// rowCoords locates one retained row inside the workbook.
type rowCoords struct {
	sheet       string
	stationCode string
	rowNumber   int
	rowID       int
}

// aggregator folds retained rows into the output collections. All state is
// local to one import invocation; there are no process-wide caches.
type aggregator struct {
	model *models.Model

	stations map[string]*models.Station
	vehicles map[string]*models.Vehicle
	workings map[string]*models.VehicleWorking
	staff    map[string]*models.StaffMember
	duties   map[string]*models.Duty
	trains   map[string]map[string]*models.Train
	sheets   map[string]bool
	seenKeys map[string]bool
}

func newAggregator() *aggregator {
	return &aggregator{
		model:    models.NewModel(),
		stations: make(map[string]*models.Station),
		vehicles: make(map[string]*models.Vehicle),
		workings: make(map[string]*models.VehicleWorking),
		staff:    make(map[string]*models.StaffMember),
		duties:   make(map[string]*models.Duty),
		trains:   make(map[string]map[string]*models.Train),
		sheets:   make(map[string]bool),
		seenKeys: make(map[string]bool),
	}
}

func (a *aggregator) addSheet(code string) {
	if !a.sheets[code] {
		a.sheets[code] = true
		a.model.Sheets = append(a.model.Sheets, code)
	}
}

// addRow applies every aggregation rule to one retained row.
func (a *aggregator) addRow(row RawRow, at rowCoords, now time.Time) {
	validityIn := ParseValidityDate(row.Get("validityIn"))
	validityOut := ParseValidityDate(row.Get("validityOut"))
	baseIn := baseDate(validityIn, now)
	baseOut := baseDate(validityOut, now)

	arrivalTime := ParseTimeWithOffset(row.Get("arrival"), baseIn)
	arrivalDecimal := TimeToDecimal(arrivalTime)
	departureTime := ParseTimeWithOffset(row.Get("departure"), baseOut)
	departureDecimal := TimeToDecimal(departureTime)

	vehicleIn := ParseVehicleName(row.Text("technicalVehicleTypeIn"), row.Text("vehicleNoIn"))
	vehicleOut := ParseVehicleName(row.Text("technicalVehicleTypeOut"), row.Text("vehicleNoOut"))

	staffIn := ParseStaff(row, "In", baseIn)
	staffOut := ParseStaff(row, "Out", baseOut)

	station := a.station(at.stationCode, row.Text("networkPointName"))

	if row.Text("trainNoIn") != "" || vehicleIn != "" {
		station.Arrivals = append(station.Arrivals, models.ArrivalRecord{
			ID:                    fmt.Sprintf("arr.%s---%d", at.stationCode, at.rowID),
			RowID:                 at.rowID,
			TrainNo:               row.Text("trainNoIn"),
			ArrivalDate:           validityIn,
			Arrival:               arrivalTime,
			ArrivalDecimal:        arrivalDecimal,
			ArrivalPlanned:        plannedClock(arrivalTime),
			Vehicle:               vehicleIn,
			VehicleWorking:        row.Text("vehicleWorkingIn"),
			Staff:                 staffIn,
			DriverPersonnelNumber: firstStaffID(staffIn),
			DepartureTrainNo:      row.Text("trainNoOut"),
			StartingLocation:      row.Text("startingLocationIn"),
			EndLocation:           row.Text("endLocationIn"),
			ArrivalTrainNumber:    row.Text("trainNoIn"),
			ArrivalEmployee1:      machinistNames(staffIn),
		})
	}

	if row.Text("trainNoOut") != "" || vehicleOut != "" {
		station.Departures = append(station.Departures, models.DepartureRecord{
			ID:                    fmt.Sprintf("dep.%s---%d", at.stationCode, at.rowID),
			RowID:                 at.rowID,
			TrainNo:               row.Text("trainNoOut"),
			DepartureDate:         validityOut,
			Departure:             departureTime,
			DepartureDecimal:      departureDecimal,
			DeparturePlanned:      plannedClock(departureTime),
			Vehicle:               vehicleOut,
			VehicleWorking:        row.Text("vehicleWorkingOut"),
			Staff:                 staffOut,
			DriverPersonnelNumber: firstStaffID(staffOut),
			ArrivalTrainNo:        row.Text("trainNoIn"),
			StartingLocation:      row.Text("startingLocationOut"),
			EndLocation:           row.Text("endLocationOut"),
			DepartureTrainNumber:  row.Text("trainNoOut"),
			DepartureEmployee1:    machinistNames(staffOut),
		})
	}

	stopName := row.Text("networkPointName")
	if stopName == "" {
		stopName = at.stationCode
	}
	if row.Text("trainNoIn") != "" && validityIn != "" {
		a.collectTrain(row.Text("trainNoIn"), validityIn, at.stationCode, stopName,
			arrivalTime, true, staffIn,
			row.Text("startingLocationIn"), row.Text("endLocationIn"))
	}
	if row.Text("trainNoOut") != "" && validityOut != "" {
		a.collectTrain(row.Text("trainNoOut"), validityOut, at.stationCode, stopName,
			departureTime, false, staffOut,
			row.Text("startingLocationOut"), row.Text("endLocationOut"))
	}

	a.collectVehicle(vehicleIn, row.Text("vehicleNoIn"), row.Text("vehicleRegNoIn"),
		row.Text("vehicleWorkingIn"), row.Text("startingLocationIn"), row.Get("startingTimeIn"),
		row.Text("endLocationIn"), row.Get("endingTimeIn"), baseIn)
	a.collectVehicle(vehicleOut, row.Text("vehicleNoOut"), row.Text("vehicleRegNoOut"),
		row.Text("vehicleWorkingOut"), row.Text("startingLocationOut"), row.Get("startingTimeOut"),
		row.Text("endLocationOut"), row.Get("endingTimeOut"), baseOut)

	rowTrainNo := row.Text("trainNoIn")
	if rowTrainNo == "" {
		rowTrainNo = row.Text("trainNoOut")
	}
	a.collectStaff(staffIn, validityIn, rowTrainNo)
	a.collectStaff(staffOut, validityOut, rowTrainNo)

	fields := make(map[string]string, len(row))
	for field, value := range row {
		fields[field] = value.Text()
	}
	a.model.Records = append(a.model.Records, models.Record{
		ID:               fmt.Sprintf("rec-%d", at.rowID),
		Sheet:            at.stationCode,
		OriginalSheet:    at.sheet,
		RowNumber:        at.rowNumber,
		Fields:           fields,
		VehicleIn:        vehicleIn,
		VehicleOut:       vehicleOut,
		ArrivalTime:      arrivalTime,
		ArrivalDecimal:   arrivalDecimal,
		ArrivalDate:      validityIn,
		DepartureTime:    departureTime,
		DepartureDecimal: departureDecimal,
		DepartureDate:    validityOut,
	})
}

func (a *aggregator) station(code, networkPointName string) *models.Station {
	if s, ok := a.stations[code]; ok {
		return s
	}
	if networkPointName == "" {
		networkPointName = code
	}
	s := &models.Station{Code: code, NetworkPointName: networkPointName}
	a.stations[code] = s
	a.model.Stations = append(a.model.Stations, s)
	return s
}

func (a *aggregator) collectTrain(trainNo, date, stationCode, stationName string,
	at *time.Time, isArrival bool, staff []models.StaffAssignment, startLoc, endLoc string) {

	day, ok := a.trains[date]
	if !ok {
		day = make(map[string]*models.Train)
		a.trains[date] = day
	}
	train, ok := day[trainNo]
	if !ok {
		train = &models.Train{No: trainNo}
		day[trainNo] = train
	}

	if startLoc != "" && train.StartingLocation == "" {
		train.StartingLocation = startLoc
	}
	if endLoc != "" {
		train.EndLocation = endLoc
	}

	// One stop entry per station code; a recorded arrival or departure on a
	// stop is never clobbered by a later row.
	var stop *models.Stop
	for i := range train.Stops {
		if train.Stops[i].Code == stationCode {
			stop = &train.Stops[i]
			break
		}
	}
	if stop == nil {
		train.Stops = append(train.Stops, models.Stop{Station: stationName, Code: stationCode})
		stop = &train.Stops[len(train.Stops)-1]
	}
	if isArrival && stop.Arrival == nil {
		stop.Arrival = at
	}
	if !isArrival && stop.Departure == nil {
		stop.Departure = at
	}

	for _, person := range staff {
		if person.ID == "" {
			continue
		}
		duplicate := false
		for _, existing := range train.Staff {
			if existing.ID == person.ID {
				duplicate = true
				break
			}
		}
		if !duplicate {
			train.Staff = append(train.Staff, person)
		}
	}
}

func (a *aggregator) collectVehicle(name, vehicleNo, vehicleRegNo, working,
	startLoc string, startTime Value, endLoc string, endTime Value, base time.Time) {

	if name == "" {
		return
	}
	v, ok := a.vehicles[name]
	if !ok {
		v = &models.Vehicle{Name: name}
		a.vehicles[name] = v
		a.model.Vehicles = append(a.model.Vehicles, v)
	}

	for _, n := range splitList(vehicleNo) {
		if n != "" && !contains(v.VehicleNo, n) {
			v.VehicleNo = append(v.VehicleNo, n)
		}
	}
	for _, r := range splitList(vehicleRegNo) {
		if r != "" && !contains(v.VehicleRegNo, r) {
			v.VehicleRegNo = append(v.VehicleRegNo, r)
		}
	}

	if working == "" || contains(v.VehicleWorkings, working) {
		return
	}
	v.VehicleWorkings = append(v.VehicleWorkings, working)

	// First occurrence of a working id wins.
	if _, ok := a.workings[working]; !ok {
		w := &models.VehicleWorking{
			WorkingID:        working,
			StartingTime:     ParseTimeWithOffset(startTime, base),
			StartingLocation: startLoc,
			EndingTime:       ParseTimeWithOffset(endTime, base),
			EndLocation:      endLoc,
		}
		a.workings[working] = w
		a.model.VehicleWorkings = append(a.model.VehicleWorkings, w)
	}
}

func (a *aggregator) collectStaff(staff []models.StaffAssignment, date, trainNo string) {
	for _, person := range staff {
		if person.ID == "" {
			continue
		}
		member, ok := a.staff[person.ID]
		if !ok {
			member = &models.StaffMember{
				ID:         person.ID,
				Occupation: person.Occupation,
				Name:       person.Name,
				Phone:      person.Phone,
			}
			a.staff[person.ID] = member
			a.model.Staff = append(a.model.Staff, member)
		}
		if member.Phone == "" {
			member.Phone = person.Phone
		}
		if member.Occupation == "" {
			member.Occupation = person.Occupation
		}

		if person.Duty == "" {
			continue
		}
		dutyKey := date + ":" + person.Duty
		if !contains(member.Duties, dutyKey) {
			member.Duties = append(member.Duties, dutyKey)
		}
		if date != "" && !contains(member.Dates, date) {
			member.Dates = append(member.Dates, date)
		}

		duty, ok := a.duties[dutyKey]
		if !ok {
			duty = &models.Duty{
				Code:         person.Duty,
				Date:         date,
				StartingTime: person.DutyStartingTime,
				EndTime:      person.DutyEndTime,
			}
			a.duties[dutyKey] = duty
			a.model.Duties = append(a.model.Duties, duty)
		}
		if trainNo != "" && !contains(duty.Trains, trainNo) {
			duty.Trains = append(duty.Trains, trainNo)
		}
	}
}

// finish converts the per-date train maps into sorted slices and stamps the
// import metadata.
func (a *aggregator) finish(fileName string, importedAt time.Time) *models.Model {
	for date, day := range a.trains {
		trains := make([]*models.Train, 0, len(day))
		for _, t := range day {
			trains = append(trains, t)
		}
		sort.Slice(trains, func(i, j int) bool {
			return models.CompareTrainNo(trains[i].No, trains[j].No)
		})
		a.model.Trains[date] = trains
	}
	a.model.FileName = fileName
	a.model.LastImported = importedAt
	return a.model
}

func plannedClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}

func firstStaffID(staff []models.StaffAssignment) string {
	if len(staff) == 0 {
		return ""
	}
	return staff[0].ID
}

func machinistNames(staff []models.StaffAssignment) string {
	var names []string
	for _, person := range staff {
		if person.Occupation == OccupationMachinist {
			names = append(names, person.Name)
		}
	}
	return strings.Join(names, ", ")
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
