package dashboard

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>ORACLO Dashboard</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Inter', -apple-system, system-ui, sans-serif; background: #0f172a; color: #e2e8f0; min-height: 100vh; }
        .header { background: linear-gradient(135deg, #1e293b, #334155); padding: 1.5rem 2rem; border-bottom: 1px solid #475569; display: flex; justify-content: space-between; align-items: center; }
        .header h1 { font-size: 1.5rem; background: linear-gradient(135deg, #38bdf8, #818cf8); background-clip: text; -webkit-background-clip: text; -webkit-text-fill-color: transparent; }
        .header .updated { color: #64748b; font-size: 0.8rem; }
        .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(240px, 1fr)); gap: 1rem; padding: 2rem; }
        .card { background: #1e293b; border: 1px solid #334155; border-radius: 12px; padding: 1.5rem; transition: transform 0.2s; }
        .card:hover { transform: translateY(-2px); }
        .card .label { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.05em; color: #94a3b8; margin-bottom: 0.5rem; }
        .card .value { font-size: 2rem; font-weight: 700; color: #f1f5f9; }
        .card .sub { font-size: 0.875rem; color: #64748b; margin-top: 0.25rem; }
        .card.accent { border-color: #38bdf8; }
        .card.accent .value { color: #38bdf8; }
        .card.success { border-color: #4ade80; }
        .card.success .value { color: #4ade80; }
        .card.warning { border-color: #fbbf24; }
        .card.warning .value { color: #fbbf24; }
        .card.error { border-color: #f87171; }
        .card.error .value { color: #f87171; }
        .panel { background: #1e293b; border: 1px solid #334155; border-radius: 12px; padding: 1.5rem; margin: 0 2rem 2rem; }
        .panel h2 { font-size: 0.875rem; text-transform: uppercase; letter-spacing: 0.05em; color: #94a3b8; margin-bottom: 1rem; }
        .panel table { width: 100%; border-collapse: collapse; font-size: 0.875rem; }
        .panel td { padding: 0.4rem 0; border-bottom: 1px solid #334155; }
        .panel td:last-child { text-align: right; color: #38bdf8; font-weight: 600; }
        .footer { text-align: center; padding: 1rem; color: #475569; font-size: 0.75rem; }
    </style>
</head>
<body>
    <div class="header">
        <h1>ORACLO News Platform</h1>
        <span class="updated" id="updated">loading…</span>
    </div>
    <div class="grid">
        <div class="card accent"><div class="label">Total Articles</div><div class="value" id="total_articles">0</div></div>
        <div class="card success"><div class="label">Articles Today</div><div class="value" id="articles_today">0</div></div>
        <div class="card error"><div class="label">Breaking News</div><div class="value" id="breaking_count">0</div></div>
        <div class="card warning"><div class="label">Unread Alerts</div><div class="value" id="unread_alerts">0</div></div>
        <div class="card"><div class="label">Avg Sentiment</div><div class="value" id="average_sentiment">0.00</div><div class="sub" id="sentiment_mood"></div></div>
        <div class="card accent"><div class="label">Active Sources</div><div class="value" id="active_sources">0</div><div class="sub" id="total_sources"></div></div>
        <div class="card"><div class="label">Articles Saved</div><div class="value" id="articles_saved">0</div></div>
        <div class="card"><div class="label">Articles Processed</div><div class="value" id="articles_processed">0</div></div>
        <div class="card warning"><div class="label">Queue Depth</div><div class="value" id="queue_depth">0</div></div>
        <div class="card error"><div class="label">Collection Failures</div><div class="value" id="collections_failed">0</div></div>
    </div>
    <div class="panel">
        <h2>Sentiment Breakdown</h2>
        <table id="sentiment_counts"><tbody></tbody></table>
    </div>
    <div class="panel">
        <h2>Most Active Sources (24h)</h2>
        <table id="active_source_rows"><tbody></tbody></table>
    </div>
    <div class="footer">ORACLO — Auto-refreshes every 5s</div>
    <script>
        function mood(s) { if (s > 0.1) return 'positive'; if (s < -0.1) return 'negative'; return 'neutral'; }
        function fillTable(id, rows) {
            const body = document.querySelector('#' + id + ' tbody');
            body.innerHTML = '';
            for (const [name, count] of rows) {
                const tr = document.createElement('tr');
                const td1 = document.createElement('td');
                const td2 = document.createElement('td');
                td1.textContent = name;
                td2.textContent = Number(count).toLocaleString();
                tr.append(td1, td2);
                body.appendChild(tr);
            }
        }
        async function refresh() {
            try {
                const r = await fetch('/api/stats');
                const d = await r.json();
                const s = d.stats || {};
                const c = d.counters || {};
                for (const k of ['total_articles','articles_today','breaking_count','unread_alerts']) {
                    const el = document.getElementById(k);
                    if (el && s[k] !== undefined) el.textContent = Number(s[k]).toLocaleString();
                }
                const avg = Number(s.average_sentiment || 0);
                document.getElementById('average_sentiment').textContent = avg.toFixed(2);
                document.getElementById('sentiment_mood').textContent = mood(avg);
                const srcs = s.sources || {};
                document.getElementById('active_sources').textContent = srcs.active_sources || 0;
                document.getElementById('total_sources').textContent = (srcs.total_sources || 0) + ' total';
                for (const k of ['articles_saved','articles_processed','queue_depth','collections_failed']) {
                    const el = document.getElementById(k);
                    if (el && c[k] !== undefined) el.textContent = Number(c[k]).toLocaleString();
                }
                fillTable('sentiment_counts', Object.entries(s.sentiment_distribution || {}));
                fillTable('active_source_rows', (s.most_active_sources || []).map(x => [x.source_name, x.articles]));
                document.getElementById('updated').textContent = 'updated ' + new Date().toLocaleTimeString();
            } catch(e) {}
        }
        setInterval(refresh, 5000);
        refresh();
    </script>
</body>
</html>`
