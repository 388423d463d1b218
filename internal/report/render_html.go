package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"fmt"
	"html"
	htmltemplate "html/template"
	"log/slog"
	"math"
	"strings"
	texttemplate "text/template" // nosemgrep

	"mmapeak/internal/table"
)

// Package-level map for custom HTML renderers
var customHTMLRenderers = map[string]table.HTMLTableRenderer{}

// getCustomHTMLRenderer returns the custom renderer for a table, or nil if no custom renderer exists
func getCustomHTMLRenderer(tableName string) table.HTMLTableRenderer {
	return customHTMLRenderers[tableName]
}

// RegisterHTMLRenderer allows external packages to register custom HTML renderers for specific tables
func RegisterHTMLRenderer(tableName string, renderer table.HTMLTableRenderer) {
	customHTMLRenderers[tableName] = renderer
}

func getHtmlReportBegin(reportName string) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html>
<html lang="en">
`)
	sb.WriteString("<head>\n")
	sb.WriteString(fmt.Sprintf(`    <meta charset="UTF-8">
    <title>mmapeak - %s</title>
    <meta name="viewport" content="width=device-width, initial-scale=1">
`, html.EscapeString(reportName)))
	// link the style sheets and javascript
	sb.WriteString(`
	<link rel="stylesheet" href="https://unpkg.com/normalize.css@8.0.1/normalize.css" integrity="sha384-M86HUGbBFILBBZ9ykMAbT3nVb0+2C7yZlF8X2CiKNpDOQjKroMJqIeGZ/Le8N2Qp" crossorigin="anonymous" referrerpolicy="no-referrer" />
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/purecss@3.0.0/build/pure-min.css" integrity="sha384-X38yfunGUhNzHpBaEBsWLO+A0HDYOQi8ufWDkZ0k9e0eXz/tH3II7uKZ9msv++Ls" crossorigin="anonymous" referrerpolicy="no-referrer" />
    <script src="https://unpkg.com/chart.js@3.7.1/dist/chart.min.js" integrity="sha384-7NrRHqlWUj2hJl3a/dZj/a1GxuQc56mJ3aYsEnydBYrY1jR+RSt6SBvK3sHfj+mJ" crossorigin="anonymous"  referrerpolicy="no-referrer"></script>
	`)
	sb.WriteString(`
	<style>
        .content {
            padding: 0 2em;
            line-height: 1.6em;
        }
        .content h2 {
            font-weight: 300;
            color: #888;
        }
        .content h2:before {
            content: '';
            display: block;
            position: relative;
            width: 0;
            height: 5em;
            margin-top: -5em
        }
        .level-high {
            color: #fff;
            background-color: #009F81;
        }
        .level-medium {
            background-color: #FFC33B;
        }
        .level-low {
            background-color: #eee;
        }
	</style>
`)
	// add sidebar class styles
	sb.WriteString(`
	<style>
		.sidebar {
            height: 100%;
            width: 0;
            position: fixed;
            z-index: 1;
            top: 0;
            left: 0;
            background-color: #111;
            overflow-x: hidden;
            transition: 0.5s;
            padding-top: 30px;
            padding-left: 0px;
        }
        .sidebar a {
            padding: 0px 4px 2px 35px;
            text-decoration: none;
            color: #818181;
            display: block;
            transition: 0.3s;
        }
        .sidebar a:hover {
            color: #f1f1f1;
        }
        .sidebar .togglebtn {
            position: absolute;
            top: 0;
            right: 0px;
            font-size: 25px;
            padding-left: 5px;
            color: #ccc;
            background-color: #1f8dd6;
        }
		.field-description {
			position: relative;
			display: inline-block;
			margin-left: 5px;
			cursor: help;
		}
		.field-description .tooltip-icon {
			color: #fff;
			font-size: 12px;
			border-radius: 50%;
			padding: 0 4px;
			background-color: #2196F3;
		}
		.field-description .tooltip-text {
			visibility: hidden;
			width: 250px;
			background-color: #333;
			color: #fff;
			border-radius: 6px;
			padding: 8px;
			position: absolute;
			z-index: 1000;
			bottom: 125%;
			left: 50%;
			margin-left: -125px;
			font-size: 12px;
		}
		.field-description:hover .tooltip-text {
			visibility: visible;
		}
	</style>
	`)
	sb.WriteString("</head>\n")
	return sb.String()
}

func getHtmlReportMenu(allTableValues []table.TableValues) string {
	var sb strings.Builder
	// if none of the tables have menu labels, don't add the sidebar
	hasMenuLabels := false
	for _, tableValues := range allTableValues {
		if tableValues.MenuLabel != "" {
			hasMenuLabels = true
			break
		}
	}
	if hasMenuLabels {
		sb.WriteString("<div id=\"mySidebar\" class=\"sidebar\">\n")
		sb.WriteString("<a href=\"#\" style=\"position: absolute;top: 0; padding-left: 7px; padding-right: 117px; color: #fff; background-color: #1f8dd6\">CONTENTS</a>\n")
		sb.WriteString("<a href=\"javascript:void(0)\" class=\"togglebtn\" onclick=\"toggleNav()\">&lt;</a>\n")
		for _, tableValues := range allTableValues {
			if tableValues.MenuLabel != "" {
				sb.WriteString(fmt.Sprintf("<a href=\"#%s\">%s</a>\n", html.EscapeString(tableValues.Name), html.EscapeString(tableValues.MenuLabel)))
			}
		}
		sb.WriteString("</div>\n") // end of sidebar
	}
	return sb.String()
}

func getHtmlReportSidebarJavascript() string {
	return `
	<script>
		const widthOpen="225px"
		const widthClosed="30px"
		function openNav() {
			document.getElementById("mySidebar").style.width = widthOpen;
			document.getElementById("myTables").style.marginLeft = widthOpen;
			document.querySelector(".togglebtn").innerHTML="<"
		}
		function closeNav() {
			document.getElementById("mySidebar").style.width = widthClosed;
			document.getElementById("myTables").style.marginLeft= widthClosed;
			document.querySelector(".togglebtn").innerHTML=">"
		}
		function toggleNav() {
			if (document.getElementById("mySidebar").style.width !== widthOpen) {
				openNav()
			} else {
				closeNav()
			}
		}
		if (document.getElementById("mySidebar")) {
			openNav()
		}
	</script>
	`
}

func createHtmlReport(allTableValues []table.TableValues, reportName string) (out []byte, err error) {
	var sb strings.Builder
	sb.WriteString(getHtmlReportBegin(reportName))

	// body starts here
	sb.WriteString("<body>\n")
	sb.WriteString("<main class=\"content\">\n")
	sb.WriteString(getHtmlReportMenu(allTableValues))
	sb.WriteString("<div id=\"myTables\">\n")
	sb.WriteString(fmt.Sprintf("<h1>mmapeak</h1>\n<p>%s</p>\n", html.EscapeString(reportName)))
	sb.WriteString(`
<noscript>
	<h3>JavaScript is disabled. Charts are not available.</h3>
</noscript>
`)
	for _, tableValues := range allTableValues {
		sb.WriteString(fmt.Sprintf("<h2 id=\"%[1]s\">%[1]s</h2>\n", html.EscapeString(tableValues.Name)))
		// if there's no data in the table, print a message and continue
		if !hasData(tableValues) {
			sb.WriteString("<p>" + html.EscapeString(noDataMessage(tableValues)) + "</p>\n")
			continue
		}
		if renderer := getCustomHTMLRenderer(tableValues.Name); renderer != nil { // custom table renderer
			sb.WriteString(renderer(tableValues, reportName))
		} else {
			sb.WriteString(DefaultHTMLTableRendererFunc(tableValues))
		}
	}
	sb.WriteString("</div>\n") // end of myTables
	sb.WriteString("</main>\n")

	sb.WriteString(getHtmlReportSidebarJavascript())

	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")
	out = []byte(sb.String())
	return
}

const datasetTemplate = `
{
	label: {{.Label}},
	data: [{{.Data}}],
	backgroundColor: '{{.Color}}',
	borderColor: '{{.Color}}',
	borderWidth: 1,
	hidden: {{.Hidden}}
}
`

const barChartTemplate = `<div class="chart-container" style="max-width: 1200px">
<canvas id="{{.ID}}"></canvas>
</div>
<script>
new Chart(document.getElementById('{{.ID}}'), {
    type: 'bar',
    data: {
        labels: [{{.Labels}}],
        datasets: [{{.Datasets}}]
    },
    options: {
        aspectRatio: {{.AspectRatio}},
        scales: {
            x: {
                title: {
                    text: "{{.XaxisText}}",
                    display: true
                },
                ticks: {
                    maxRotation: 90,
                    minRotation: 45
                }
            },
            y: {
                beginAtZero: true,
                title: {
                    text: "{{.YaxisText}}",
                    display: true
                },
                suggestedMin: {{.SuggestedMin}},
                suggestedMax: {{.SuggestedMax}},
            }
        },
        plugins: {
            title: {
                text: "{{.TitleText}}",
                display: {{.DisplayTitle}},
                font: {
                    size: 18
                }
            },
            legend: {
                display: {{.DisplayLegend}}
            }
        }
    }
});
</script>
`

// ChartTemplateStruct holds the values substituted into a chart template
type ChartTemplateStruct struct {
	ID            string
	Labels        string
	Datasets      string
	XaxisText     string
	YaxisText     string
	TitleText     string
	DisplayTitle  string
	DisplayLegend string
	AspectRatio   string
	SuggestedMin  string
	SuggestedMax  string
}

// CreateFieldNameWithDescription creates HTML for a field name with optional description tooltip
func CreateFieldNameWithDescription(fieldName, description string) string {
	if description == "" {
		return htmltemplate.HTMLEscapeString(fieldName)
	}
	return htmltemplate.HTMLEscapeString(fieldName) + `<span class="field-description"><span class="tooltip-icon">?</span><span class="tooltip-text">` + htmltemplate.HTMLEscapeString(description) + `</span></span>`
}

// RenderHTMLTable renders already escaped values as an HTML table. valuesClass,
// when set, holds a css class per cell.
func RenderHTMLTable(tableHeaders []string, tableValues [][]string, class string, valuesClass [][]string) string {
	return renderHTMLTableWithDescriptions(tableHeaders, nil, tableValues, class, valuesClass)
}

func renderHTMLTableWithDescriptions(tableHeaders []string, headerDescriptions []string, tableValues [][]string, class string, valuesClass [][]string) string {
	var sb strings.Builder
	sb.WriteString(`<table class="` + class + `">`)
	if len(tableHeaders) > 0 {
		sb.WriteString(`<thead>`)
		sb.WriteString(`<tr>`)
		for i, label := range tableHeaders {
			var description string
			if headerDescriptions != nil && i < len(headerDescriptions) {
				description = headerDescriptions[i]
			}
			sb.WriteString(`<th>` + CreateFieldNameWithDescription(label, description) + `</th>`)
		}
		sb.WriteString(`</tr>`)
		sb.WriteString(`</thead>`)
	}
	sb.WriteString(`<tbody>`)
	for rowIdx, rowValues := range tableValues {
		sb.WriteString(`<tr>`)
		for colIdx, value := range rowValues {
			var cellClass string
			if len(valuesClass) > rowIdx && len(valuesClass[rowIdx]) > colIdx && valuesClass[rowIdx][colIdx] != "" {
				cellClass = ` class="` + valuesClass[rowIdx][colIdx] + `"`
			}
			sb.WriteString(`<td` + cellClass + `>` + value + `</td>`)
		}
		sb.WriteString(`</tr>`)
	}
	sb.WriteString(`</tbody>`)
	sb.WriteString(`</table>`)
	return sb.String()
}

// TableRowsAsHTML returns the escaped values of a row-form table, one slice per row
func TableRowsAsHTML(tableValues table.TableValues) [][]string {
	values := [][]string{}
	if len(tableValues.Fields) == 0 {
		return values
	}
	for row := range tableValues.Fields[0].Values {
		rowValues := []string{}
		for _, field := range tableValues.Fields {
			rowValues = append(rowValues, htmltemplate.HTMLEscapeString(field.Values[row]))
		}
		values = append(values, rowValues)
	}
	return values
}

// RenderRowTableAsHTML renders a row-form table with a css class per cell
func RenderRowTableAsHTML(tableValues table.TableValues, valuesClass [][]string) string {
	headers := []string{}
	headerDescriptions := []string{}
	for _, field := range tableValues.Fields {
		headers = append(headers, field.Name)
		headerDescriptions = append(headerDescriptions, field.Description)
	}
	return renderHTMLTableWithDescriptions(headers, headerDescriptions, TableRowsAsHTML(tableValues), "pure-table pure-table-striped", valuesClass)
}

func DefaultHTMLTableRendererFunc(tableValues table.TableValues) string {
	if tableValues.HasRows { // print the field names as column headings across the top of the table
		return RenderRowTableAsHTML(tableValues, nil)
	}
	// print the field name followed by its value
	values := [][]string{}
	for _, field := range tableValues.Fields {
		rowValues := []string{}
		rowValues = append(rowValues, CreateFieldNameWithDescription(field.Name, field.Description))
		if len(field.Values) > 0 {
			rowValues = append(rowValues, htmltemplate.HTMLEscapeString(field.Values[0]))
		} else {
			rowValues = append(rowValues, "")
		}
		values = append(values, rowValues)
	}
	return RenderHTMLTable([]string{}, values, "pure-table pure-table-striped", nil)
}

// RenderBarChart generates the HTML/JavaScript for a Chart.js bar chart.
// Parameters:
//   - data: one slice of values per dataset, aligned with xAxisLabels; NaN values are left empty.
//   - datasetNames: the legend label of each dataset.
//   - xAxisLabels: the category labels along the x-axis.
//   - config: the chart configuration; Labels and Datasets are filled in here.
//
// Returns the rendered chart, or an error message if rendering fails.
func RenderBarChart(data [][]float64, datasetNames []string, xAxisLabels []string, config ChartTemplateStruct) string {
	dst := texttemplate.Must(texttemplate.New("datasetTemplate").Parse(datasetTemplate))
	datasets := []string{}
	for dataIdx, values := range data {
		formatted := []string{}
		for _, value := range values {
			if math.IsNaN(value) {
				formatted = append(formatted, "null")
				continue
			}
			formatted = append(formatted, fmt.Sprintf("%g", value))
		}
		buf := new(bytes.Buffer)
		err := dst.Execute(buf, struct {
			Label  string
			Data   string
			Color  string
			Hidden string
		}{
			Label:  jsString(datasetNames[dataIdx]),
			Data:   strings.Join(formatted, ","),
			Color:  getColor(dataIdx),
			Hidden: "false",
		})
		if err != nil {
			slog.Error("error executing template", slog.String("error", err.Error()))
			return "Error rendering chart."
		}
		datasets = append(datasets, buf.String())
	}
	labels := []string{}
	for _, label := range xAxisLabels {
		labels = append(labels, jsString(label))
	}
	config.Labels = strings.Join(labels, ",")
	config.Datasets = strings.Join(datasets, ",")
	sct := texttemplate.Must(texttemplate.New("barChartTemplate").Parse(barChartTemplate))
	buf := new(bytes.Buffer)
	if err := sct.Execute(buf, config); err != nil {
		slog.Error("error executing template", slog.String("error", err.Error()))
		return "Error rendering chart."
	}
	return buf.String() + "\n"
}

// jsString quotes s as a JavaScript string literal that is safe inside a script element
func jsString(s string) string {
	return "'" + texttemplate.JSEscapeString(s) + "'"
}

func getColor(idx int) string {
	// color-blind safe palette from here: http://mkweb.bcgsc.ca/colorblind/palettes.mhtml#page-container
	colors := []string{"#9F0162", "#009F81", "#FF5AAF", "#00FCCF", "#8400CD", "#008DF9", "#00C2F9", "#FFB2FD", "#A40122", "#E20134", "#FF6E3A", "#FFC33B"}
	return colors[idx%len(colors)]
}
