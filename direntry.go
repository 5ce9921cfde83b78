package fat32report

import (
	"bytes"
	"encoding/binary"
)

const directoryEntrySize = 32

// rawDirectoryEntry mirrors the on-disk layout of a 32-byte short-name
// directory slot.
type rawDirectoryEntry struct {
	Name            [8]byte
	Extension       [3]byte
	Attributes      uint8
	_               uint8 // NTRes, unused by this core
	CreateTimeTenth uint8
	CreateTime      uint16
	CreateDate      uint16
	AccessDate      uint16
	FirstClusterHI  uint16
	ModifyTime      uint16
	ModifyDate      uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

// DecodeDirectory decodes the concatenated bytes of a directory's cluster
// chain into an ordered sequence of short-name entries. Deleted entries and
// long-filename slots are skipped; decoding stops at the first 0x00
// terminator slot. A malformed slot is skipped and reported as a warning
// rather than aborting the whole directory.
func DecodeDirectory(data []byte) ([]DirectoryEntry, []Warning) {
	var entries []DirectoryEntry
	var warnings []Warning

	for pos := 0; pos+directoryEntrySize <= len(data); pos += directoryEntrySize {
		slot := data[pos : pos+directoryEntrySize]

		if slot[0] == 0x00 {
			break
		}
		if slot[0] == 0xE5 {
			continue
		}
		if slot[11] == attrLongName {
			continue
		}

		entry, err := decodeShortNameEntry(slot)
		if err != nil {
			warnings = append(warnings, Warning{
				Kind:    WarningMalformedDirectoryEntry,
				Context: slotContext(pos / directoryEntrySize),
				Err:     err,
			})
			continue
		}

		entries = append(entries, entry)
	}

	return entries, warnings
}

func decodeShortNameEntry(slot []byte) (DirectoryEntry, error) {
	var raw rawDirectoryEntry
	if err := binary.Read(bytes.NewReader(slot), binary.LittleEndian, &raw); err != nil {
		return DirectoryEntry{}, err
	}

	escapedFirstByte := raw.Name[0] == 0x05

	entry := DirectoryEntry{
		Name:          decodeShortName(raw.Name[:], escapedFirstByte),
		Extension:     trimTrailingSpace(raw.Extension[:]),
		Attributes:    raw.Attributes,
		FirstCluster:  uint32(raw.FirstClusterHI)<<16 | uint32(raw.FirstClusterLO),
		FileSize:      raw.FileSize,
		IsDirectory:   raw.Attributes&attrDirectory != 0,
		IsVolumeLabel: raw.Attributes&attrVolumeID != 0,
	}

	if t, ok := combineFATDateTime(raw.CreateDate, raw.CreateTime, raw.CreateTimeTenth); ok {
		entry.CreateTime, entry.HasCreate = t, true
	}
	if t, ok := combineFATDateTime(raw.ModifyDate, raw.ModifyTime, 0); ok {
		entry.ModifyTime, entry.HasModify = t, true
	}
	if t, ok := combineFATDateTime(raw.AccessDate, 0, 0); ok {
		entry.AccessTime, entry.HasAccess = t, true
	}

	return entry, nil
}

// trimTrailingSpace decodes an ASCII field, replacing non-ASCII bytes with
// the Unicode replacement marker, and trims trailing 0x20 padding.
func trimTrailingSpace(raw []byte) string {
	out := make([]rune, 0, len(raw))
	for _, b := range raw {
		if b < 0x80 {
			out = append(out, rune(b))
		} else {
			out = append(out, '�')
		}
	}

	end := len(out)
	for end > 0 && out[end-1] == ' ' {
		end--
	}
	return string(out[:end])
}

// decodeShortName decodes an 8-byte short-name field the same way
// trimTrailingSpace does, except that when escapedFirstByte is set (the slot
// stored 0x05 in place of a genuine leading 0xE5, to avoid being mistaken for
// a deleted-entry marker) the first rune is restored to 0xE5 regardless of
// the ASCII-only replacement rule that would otherwise apply to it.
func decodeShortName(raw []byte, escapedFirstByte bool) string {
	name := trimTrailingSpace(raw)
	if !escapedFirstByte || name == "" {
		return name
	}
	// raw[0] == 0x05 decodes as the single-byte control rune U+0005; swap it
	// for the literal 0xE5 byte it stands in for.
	return string(rune(0xE5)) + name[1:]
}
