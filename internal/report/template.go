package report

// reportTemplate is the full HTML report. Styling is intentionally plain;
// the document is meant to be readable when opened straight from disk.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Travel Plan: {{.Result.Request.Destination}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 2rem auto; max-width: 960px; color: #222; }
  h1 { border-bottom: 3px solid #2a7ae2; padding-bottom: .3rem; }
  h2 { color: #2a7ae2; margin-top: 2rem; }
  table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
  th, td { border: 1px solid #ddd; padding: .5rem .75rem; text-align: left; }
  th { background: #f4f7fb; }
  .plan { border: 1px solid #e0e0e0; border-radius: 8px; padding: 1rem 1.5rem; margin: 1.5rem 0; }
  .score { color: #777; font-size: .85em; }
  .tag { background: #eef4fd; border-radius: 4px; padding: 0 .4em; font-size: .8em; }
</style>
</head>
<body>
<h1>{{.Result.Request.Destination}} Travel Plan</h1>
<p>
  Start date: <strong>{{.Result.StartDate}}</strong> ·
  Duration: <strong>{{.Result.Request.Days}} days</strong> ·
  Budget: <strong>{{printf "%.0f" .Result.Request.Budget}}</strong> ·
  Generated: {{.Result.GeneratedAt.Format "2006-01-02 15:04"}}
</p>

{{if .Result.Data.Weather}}
<h2>Weather</h2>
<table>
  <tr><th>Date</th><th>Day</th><th>Night</th><th>High</th><th>Low</th></tr>
  {{range .Result.Data.Weather}}
  <tr><td>{{.Date}}</td><td>{{.DayWeather}}</td><td>{{.NightWeather}}</td><td>{{.DayTempC}}°C</td><td>{{.NightTempC}}°C</td></tr>
  {{end}}
</table>
{{end}}

{{range .Result.Plans}}
<div class="plan">
  <h2>{{.Title}} <span class="score">est. total {{printf "%.0f" .EstimatedTotal}}</span></h2>

  <h3>Budget</h3>
  <table>
    <tr><th>Category</th><th>Amount</th><th>Share</th><th>Per day</th></tr>
    {{range .Allocations}}
    <tr><td>{{.Category}}</td><td>{{printf "%.0f" .Amount}}</td><td>{{printf "%.0f" .Percentage}}%</td><td>{{printf "%.0f" .DailyAmount}}</td></tr>
    {{end}}
  </table>

  {{if .Accommodation}}
  <h3>Stay</h3>
  <p><strong>{{.Accommodation.Name}}</strong> ({{.Accommodation.Type}}), {{printf "%.0f" .Accommodation.NightlyRate}}/night</p>
  {{end}}

  {{if .Dining}}
  <h3>Dining</h3>
  <table>
    <tr><th>Name</th><th>Category</th><th>Price</th><th>Rating</th><th>Score</th></tr>
    {{range .Dining}}
    <tr><td>{{.Name}}</td><td>{{.Category}}</td><td>{{.PriceRange}}</td><td>{{printf "%.1f" .Rating}}</td><td>{{printf "%.0f" .CompositeScore}}</td></tr>
    {{end}}
  </table>
  {{end}}

  {{if .Attractions}}
  <h3>Attractions</h3>
  <table>
    <tr><th>Name</th><th>Category</th><th>Score</th></tr>
    {{range .Attractions}}
    <tr><td>{{.Name}}</td><td>{{.Category}}</td><td>{{printf "%.0f" .CompositeScore}}</td></tr>
    {{end}}
  </table>
  {{end}}

  <h3>Itinerary</h3>
  <table>
    <tr><th>Day</th><th>Date</th><th>Plan</th><th>Dining</th></tr>
    {{range .Itinerary}}
    <tr><td>{{.Day}}</td><td>{{.Date}}</td><td>{{.Summary}}</td><td>{{.Dining}}</td></tr>
    {{end}}
  </table>
</div>
{{end}}

<p class="score">Sources used:
{{range $i, $s := .Sources}}{{if $i}}, {{end}}<span class="tag">{{$s}}</span>{{end}}
</p>
</body>
</html>
`

// fallbackTemplate is the minimal document used when the main template
// fails to execute against the data.
const fallbackTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Travel Plan</title></head>
<body><h1>{{.Result.Request.Destination}}</h1>
<p>{{.Result.Request.Days}} days starting {{.Result.StartDate}}, budget {{printf "%.0f" .Result.Request.Budget}}.</p>
<p>The full report could not be rendered; plan data is available through the API.</p>
</body></html>
`
