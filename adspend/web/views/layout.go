package views

const headScripts = `
{{define "HeadScripts"}}
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@4.6.2/dist/css/bootstrap.min.css">
  <script src="https://cdn.jsdelivr.net/npm/jquery@3.7.1/dist/jquery.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/bootstrap@4.6.2/dist/js/bootstrap.bundle.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/moment@2.29.4/moment.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@2.9.4/dist/Chart.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/hammerjs@2.0.8/hammer.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/chartjs-plugin-zoom@0.7.7/dist/chartjs-plugin-zoom.min.js"></script>
{{end}}
`

const navbar = `
{{define "Navbar"}}
  <nav class="navbar navbar-expand-lg navbar-dark bg-dark">
    <a class="navbar-brand" href="./">{{.Title}}</a>
    <ul class="navbar-nav mr-auto">
      <li class="nav-item dropdown">
        <a class="nav-link dropdown-toggle" href="#" id="party-specific-charts-navbar" role="button" data-toggle="dropdown">Parties</a>
        <div class="dropdown-menu" id="party-specific-charts-navbar-dropdown">
          {{range .Parties}}<a class="dropdown-item" href="{{.Href}}">{{.Name}}</a>{{end}}
        </div>
      </li>
    </ul>
    <span class="navbar-text small">{{.Version}}{{if .DatasetVersion}} | dataset v{{.DatasetVersion}}{{end}}</span>
  </nav>
{{end}}
`

const panel = `
{{define "Panel"}}
  {{if .Config}}<canvas id="{{.CanvasID}}"></canvas>{{else}}<p class="text-muted" id="{{.CanvasID}}">{{.Notice}}</p>{{end}}
{{end}}
`

const partyContent = `
{{define "Content"}}
  <div id="party-specific-charts">
  {{with .Party}}
    {{if .Message}}
      <p>{{.Message}}</p>
    {{else}}
      <div class="text-center">
        <h1>{{.Header.Title}}</h1>
        <p class="lead">{{.Party}} ran <strong>{{.Header.Ads}}</strong> ads and spent an estimated <strong>{{.Header.Spending}}</strong>.</p>
      </div>
      <hr>
      {{range .Sections}}
      <div id="{{.ID}}">
        <div class="text-center"><h2>{{.Heading}}</h2></div>
        <div id="{{.ChartsID}}">
        {{range .Breakdowns}}
          <div>
            <div class="text-center"><h4>{{.Heading}}</h4></div>
            <div class="row">
              <div class="col-8">
                {{template "Panel" .Line}}
                <p>{{.Description}}</p>
              </div>
              <div class="col-4">
                {{template "Panel" .Doughnut}}
              </div>
            </div>
          </div>
          <hr>
        {{end}}
        </div>
      </div>
      {{end}}
    {{end}}
  {{end}}
  </div>
{{end}}
`

const overviewContent = `
{{define "Content"}}
  <div id="overview-charts">
  {{with .Overview}}
    <div class="row">
    {{range .Panels}}
      <div class="col-6" style="min-height: 400px;">{{template "Panel" .}}</div>
    {{end}}
    </div>
  {{end}}
  </div>
{{end}}
`

const layout = `
<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}{{if .Party}}{{if .Party.Party}} | {{.Party.Party}}{{end}}{{end}}</title>
  {{template "HeadScripts" .}}
</head>
<body>
  {{template "Navbar" .}}
  <div class="container">
    {{if .Message}}<p>{{.Message}}</p>{{else}}{{template "Content" .}}{{end}}
  </div>
  {{template "ChartScript" .}}
</body>
</html>
`
