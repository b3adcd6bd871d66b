package report

import (
	"html/template"
	"io"

	"github.com/iWorld-y/insight_radar/internal/model"
)

// htmlTpl 早报 HTML 模板，供 worker 写出 index.html
const htmlTpl = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Insight Radar | {{ .WindowLabel }}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
            background-color: #f8fafc; color: #1e293b; line-height: 1.6;
            margin: 0; padding: 20px;
        }
        .container { max-width: 900px; margin: 0 auto; }
        header { text-align: center; margin-bottom: 40px; padding: 20px 0; }
        h1 { font-size: 2.2rem; margin: 0 0 10px 0; }
        .window { color: #64748b; }
        .card {
            background: #ffffff; border-radius: 12px; padding: 24px;
            margin-bottom: 24px; border: 1px solid #e2e8f0;
            box-shadow: 0 2px 4px rgba(0,0,0,0.05);
        }
        .card h2 { margin-top: 0; border-bottom: 2px solid #2563eb; display: inline-block; padding-bottom: 6px; }
        .badge { padding: 2px 10px; border-radius: 12px; font-size: 0.85rem; font-weight: bold; }
        .badge-high { background: #fee2e2; color: #991b1b; }
        .badge-medium { background: #fef9c3; color: #854d0e; }
        .badge-low { background: #dcfce7; color: #166534; }
        .meta { color: #64748b; font-size: 0.9rem; margin: 6px 0; }
        .empty { text-align: center; color: #64748b; padding: 40px; }
        ul { padding-left: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>📡 Insight Radar</h1>
            <div class="window">{{ .WindowLabel }}</div>
        </header>

        {{if and (not .Trends) (not .Problems)}}
        <div class="card empty">Analysis found no significant trends or problems in this window.</div>
        {{end}}

        {{range .Trends}}
        <div class="card">
            <h2>📈 {{ .Trend }}</h2>
            <div class="meta">Growth {{ printf "%.0f" .GrowthPercentage }}% over {{ .TimePeriod }} • Confidence {{ .Confidence }}/100</div>
            <div class="meta">Competition <span class="badge badge-{{ lower .CompetitionLevel }}">{{ .CompetitionLevel }}</span>
                 Entry cost <span class="badge badge-{{ lower .EntryCost }}">{{ .EntryCost }}</span></div>
            <p>{{ .MarketAnalysis }}</p>
            <p><strong>Recommendation:</strong> {{ .Recommendation }}</p>
        </div>
        {{end}}

        {{range .Problems}}
        <div class="card">
            <h2>🔥 {{ .Problem }}</h2>
            <div class="meta">Frequency {{ .Frequency }} • Severity <span class="badge badge-{{ lower .Severity }}">{{ .Severity }}</span>
                 • Market {{ .MarketSize }} • Urgency <span class="badge badge-{{ lower .Urgency }}">{{ .Urgency }}</span></div>
            <ul>
                {{range .PotentialSolutions}}<li>{{ . }}</li>{{end}}
            </ul>
        </div>
        {{end}}
    </div>
</body>
</html>
`

// RenderHTML 渲染 HTML 早报到 w
func RenderHTML(w io.Writer, rep *model.AnalysisReport) error {
	t, err := template.New("report").Funcs(template.FuncMap{
		"lower": func(v interface{}) string {
			switch s := v.(type) {
			case model.Level:
				return lowerLevel(string(s))
			case model.MarketSize:
				return lowerLevel(string(s))
			default:
				return ""
			}
		},
	}).Parse(htmlTpl)
	if err != nil {
		return err
	}
	return t.Execute(w, rep)
}

func lowerLevel(s string) string {
	switch s {
	case "High", "Large":
		return "high"
	case "Medium":
		return "medium"
	default:
		return "low"
	}
}
