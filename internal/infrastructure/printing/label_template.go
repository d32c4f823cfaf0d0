package printing

import "time"

// LocationLabel holds the printable fields for one location label
type LocationLabel struct {
	Code    string
	Name    string
	Barcode string
	Type    string
	Zone    string
	Aisle   string
	Rack    string
	Level   string
}

// LabelSheetData is the template payload for a location label sheet
type LabelSheetData struct {
	GeneratedAt time.Time
	Labels      []LocationLabel
}

// LocationLabelTemplate lays out scannable location labels. On sheet paper
// (A4/Letter) labels flow two per row; on label stock each label fills its
// own page. The barcode is Code 39 so any handheld scanner can read it
// without symbology configuration.
const LocationLabelTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Location Labels</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: Arial, Helvetica, sans-serif; }
  .sheet { display: flex; flex-wrap: wrap; }
  .label {
    width: 96mm; height: 46mm;
    margin: 2mm; padding: 3mm;
    border: 0.3mm solid #333;
    page-break-inside: avoid;
    display: flex; flex-direction: column;
  }
  .label .head { display: flex; justify-content: space-between; align-items: baseline; }
  .label .code { font-size: 14pt; font-weight: bold; letter-spacing: 0.5mm; }
  .label .type { font-size: 8pt; color: #444; text-transform: uppercase; }
  .label .name { font-size: 9pt; color: #222; margin-top: 1mm; white-space: nowrap; overflow: hidden; text-overflow: ellipsis; }
  .label .coords { font-size: 8pt; color: #444; margin-top: 1mm; }
  .label .coords span { margin-right: 3mm; }
  .label .barcode { flex: 1; margin-top: 2mm; min-height: 12mm; }
  .label .barcode svg { width: 100%; height: 100%; }
  .label .digits { font-size: 10pt; text-align: center; letter-spacing: 1mm; margin-top: 1mm; font-family: "Courier New", monospace; }
  .footer { width: 100%; font-size: 7pt; color: #888; text-align: right; padding: 1mm 2mm; }
</style>
</head>
<body>
<div class="sheet">
{{- range .Labels }}
  <div class="label">
    <div class="head">
      <span class="code">{{ default .Code .Barcode }}</span>
      <span class="type">{{ .Type }}</span>
    </div>
    {{- if .Name }}
    <div class="name">{{ .Name }}</div>
    {{- end }}
    {{- if or .Zone .Aisle .Rack .Level }}
    <div class="coords">
      {{- if .Zone }}<span>Zone {{ .Zone }}</span>{{ end }}
      {{- if .Aisle }}<span>Aisle {{ .Aisle }}</span>{{ end }}
      {{- if .Rack }}<span>Rack {{ .Rack }}</span>{{ end }}
      {{- if .Level }}<span>Level {{ .Level }}</span>{{ end }}
    </div>
    {{- end }}
    <div class="barcode">{{ barcode39 .Barcode 2 60 }}</div>
    <div class="digits">{{ .Barcode }}</div>
  </div>
{{- end }}
</div>
<div class="footer">Generated {{ formatDateTime .GeneratedAt }} UTC</div>
</body>
</html>`
