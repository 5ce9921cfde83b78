package fat32report

import "time"

// decodeFATDate interprets a packed FAT directory-entry date field:
//
//	Bits 0-4:  day of month, 1-31
//	Bits 5-8:  month of year, 1-12
//	Bits 9-15: years since 1980
//
// It returns ok == false (timestamp absent) when day or month is out of
// range, rather than clamping or erroring.
func decodeFATDate(raw uint16) (year int, month time.Month, day int, ok bool) {
	day = int(raw & 0x1F)
	month = time.Month((raw >> 5) & 0x0F)
	year = int((raw>>9)&0x7F) + 1980

	if day < 1 || day > 31 || month < 1 || month > 12 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// decodeFATTime interprets a packed FAT directory-entry time field:
//
//	Bits 0-4:   2-second count, 0-29 (0-58 seconds)
//	Bits 5-10:  minutes, 0-59
//	Bits 11-15: hours, 0-23
//
// tenths, when non-zero, refines the 2-second granularity with the
// create-time-tenths field (0-199): whole seconds from tenths/100 are added
// to second, and the remainder becomes a microsecond offset.
// It returns ok == false when any component is out of range.
func decodeFATTime(raw uint16, tenths uint8) (hour, minute, second, microsecond int, ok bool) {
	twoSecondCount := int(raw & 0x1F)
	minute = int((raw >> 5) & 0x3F)
	hour = int((raw >> 11) & 0x1F)

	if twoSecondCount > 29 || minute > 59 || hour > 23 {
		return 0, 0, 0, 0, false
	}

	second = twoSecondCount * 2
	if tenths > 0 {
		second += int(tenths) / 100
		microsecond = (int(tenths) % 100) * 10000
	}
	if second > 59 {
		return 0, 0, 0, 0, false
	}

	return hour, minute, second, microsecond, true
}

// combineFATDateTime decodes a date field together with a time field (and
// optional creation tenths) into a single UTC time.Time. ok is false, and the
// timestamp should be treated as absent, if either component is invalid.
func combineFATDateTime(dateRaw, timeRaw uint16, tenths uint8) (time.Time, bool) {
	year, month, day, dateOK := decodeFATDate(dateRaw)
	if !dateOK {
		return time.Time{}, false
	}

	hour, minute, second, microsecond, timeOK := decodeFATTime(timeRaw, tenths)
	if !timeOK {
		return time.Time{}, false
	}

	return time.Date(year, month, day, hour, minute, second, microsecond*1000, time.UTC), true
}
