// Package xlsx builds minimal XLSX workbooks with inline string cells. The
// import pipeline itself decodes workbooks with excelize; this encoder
// exists so tests can assemble multi-sheet fixtures without binary assets.
package xlsx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Workbook is an ordered set of named sheets.
type Workbook struct {
	Sheets []Sheet
}

// Sheet holds ordered rows of string cells.
type Sheet struct {
	Name string
	Rows [][]string
}

// Encode produces an XLSX binary containing the workbook data.
func Encode(wb Workbook) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	if err := writeFile(zw, "[Content_Types].xml", contentTypesXML(len(wb.Sheets))); err != nil {
		return nil, err
	}
	if err := writeFile(zw, "_rels/.rels", rootRelsXML); err != nil {
		return nil, err
	}
	if err := writeFile(zw, "xl/workbook.xml", workbookXML(wb)); err != nil {
		return nil, err
	}
	if err := writeFile(zw, "xl/_rels/workbook.xml.rels", workbookRelsXML(len(wb.Sheets))); err != nil {
		return nil, err
	}
	for i, sheet := range wb.Sheets {
		name := fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
		if err := writeFile(zw, name, sheetXML(sheet)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func contentTypesXML(sheetCount int) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>`)
	for i := 1; i <= sheetCount; i++ {
		b.WriteString(fmt.Sprintf(`<Override PartName="/xl/worksheets/sheet%d.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>`, i))
	}
	b.WriteString(`</Types>`)
	return []byte(b.String())
}

var rootRelsXML = []byte(`<?xml version="1.0" encoding="UTF-8"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>` +
	`</Relationships>`)

func workbookXML(wb Workbook) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" `)
	b.WriteString(`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`)
	b.WriteString(`<sheets>`)
	for i, sheet := range wb.Sheets {
		b.WriteString(fmt.Sprintf(`<sheet name="%s" sheetId="%d" r:id="rId%d"/>`, escapeXML(sheet.Name), i+1, i+1))
	}
	b.WriteString(`</sheets></workbook>`)
	return []byte(b.String())
}

func workbookRelsXML(sheetCount int) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := 1; i <= sheetCount; i++ {
		b.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet%d.xml"/>`, i, i))
	}
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}

func sheetXML(sheet Sheet) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`)
	b.WriteString(`<sheetData>`)
	for i, row := range sheet.Rows {
		b.WriteString(fmt.Sprintf(`<row r="%d">`, i+1))
		for j, cell := range row {
			if cell == "" {
				continue
			}
			ref := cellRef(i, j)
			b.WriteString(fmt.Sprintf(`<c r="%s" t="inlineStr"><is><t>%s</t></is></c>`, ref, escapeXML(cell)))
		}
		b.WriteString(`</row>`)
	}
	b.WriteString(`</sheetData></worksheet>`)
	return []byte(b.String())
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}

func cellRef(row, col int) string {
	return columnName(col) + strconv.Itoa(row+1)
}

func columnName(index int) string {
	name := ""
	for index >= 0 {
		rem := index % 26
		name = string(rune('A'+rem)) + name
		index = index/26 - 1
	}
	return name
}
