package views

const chartScript = `
{{define "ChartScript"}}
  <script>
    function withCallbacks(config) {
      const currency = config.options.currency;
      const hasLabels = config.data.datasets.some(function (ds) { return ds.tooltipLabels; });

      if (hasLabels) {
        config.options.tooltips.callbacks = {
          label: function (item, data) {
            const ds = data.datasets[item.datasetIndex];
            const label = ds.tooltipLabels[item.index];
            return data.labels[item.index] + ": " + (currency ? currency + label : label);
          }
        };
      } else if (currency) {
        config.options.scales.yAxes = [{
          ticks: { callback: function (value) { return currency + value; } }
        }];
        config.options.tooltips.callbacks = {
          label: function (item, data) {
            return data.datasets[item.datasetIndex].label + ": " + currency + item.yLabel;
          }
        };
      }
      return config;
    }

    const charts = {{serializeIncomingData .ChartsOnPage}};
    Object.keys(charts).forEach(function (canvasId) {
      const canvas = document.getElementById(canvasId);
      if (canvas) {
        new Chart(canvas, withCallbacks(charts[canvasId]));
      }
    });
  </script>
{{end}}
`
