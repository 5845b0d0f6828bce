// Package parts holds inline page assets. The critical CSS ships as a Go
// string so the widget stays a single binary with no asset directory.
package parts

// CriticalCSS covers the grid, cards, badges and panels above the fold.
const CriticalCSS = `
.sfw-root{font-family:system-ui,-apple-system,sans-serif;color:#1f2328;max-width:1200px;margin:0 auto;padding:16px}
.sfw-toolbar{display:flex;gap:12px;margin-bottom:16px}
.sfw-toolbar input[type=search]{flex:1;padding:8px 12px;border:1px solid #d0d7de;border-radius:6px}
.sfw-layout{display:grid;grid-template-columns:220px 1fr;gap:24px}
.sfw-sidebar{font-size:14px}
.sfw-sidebar h4{margin:16px 0 8px}
.sfw-sidebar label{display:block;margin:4px 0}
.sfw-grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(220px,1fr));gap:16px}
.sfw-card{border:1px solid #d0d7de;border-radius:8px;overflow:hidden;display:flex;flex-direction:column}
.sfw-card-media{position:relative;aspect-ratio:1;background:#f6f8fa;cursor:pointer}
.sfw-card-media img{width:100%;height:100%;object-fit:contain}
.sfw-image-placeholder{display:flex;align-items:center;justify-content:center;height:100%;color:#8b949e}
.sfw-badge{position:absolute;top:8px;left:8px;padding:2px 8px;border-radius:10px;font-size:12px;color:#fff}
.sfw-badge-in{background:#1a7f37}
.sfw-badge-low{background:#bf8700}
.sfw-badge-out{background:#cf222e}
.sfw-card-body{padding:10px;flex:1}
.sfw-card-brand{font-size:12px;color:#656d76;text-transform:uppercase}
.sfw-card-name{font-size:14px;margin:4px 0;cursor:pointer}
.sfw-price{font-weight:600}
.sfw-mrp{color:#8b949e;font-size:13px;margin-left:6px}
.sfw-card-variants{font-size:12px;color:#656d76}
.sfw-card-actions{display:flex;gap:8px;padding:10px;border-top:1px solid #eaeef2}
.sfw-btn{padding:6px 10px;border:1px solid #d0d7de;border-radius:6px;background:#f6f8fa;font-size:13px;cursor:pointer}
.sfw-btn:disabled{opacity:.5;cursor:not-allowed}
.sfw-btn-cart{background:#0969da;border-color:#0969da;color:#fff}
.sfw-btn-active{background:#1a7f37;border-color:#1a7f37}
.sfw-btn-wa{background:#25d366;border-color:#25d366;color:#fff;text-decoration:none}
.sfw-empty,.sfw-error{grid-column:1/-1;text-align:center;padding:48px 16px;color:#656d76}
.sfw-empty-title{font-size:16px;font-weight:600;color:#1f2328}
.sfw-loading{text-align:center;padding:16px;color:#656d76}
.sfw-counts{margin-left:auto;font-size:14px}
.sfw-notice{background:#fff8c5;border:1px solid #d4a72c;border-radius:6px;padding:8px 12px;margin-bottom:12px}
.sfw-detail{display:grid;grid-template-columns:1fr 1fr;gap:24px;padding:16px}
.sfw-detail-media img{max-width:100%}
.sfw-detail-sku{font-size:13px;color:#656d76}
.sfw-detail-variants{display:flex;flex-wrap:wrap;gap:8px;margin:12px 0}
.sfw-variant{display:inline-block;padding:6px 10px;border:1px solid #d0d7de;border-radius:6px;background:#fff;color:inherit;text-decoration:none;cursor:pointer}
.sfw-variant-active{border-color:#1a7f37;background:#eaf7ee}
.sfw-variant-disabled{opacity:.5;text-decoration:line-through;cursor:default}
.sfw-detail-specs{border-collapse:collapse;font-size:13px;margin-top:12px}
.sfw-detail-specs td{border:1px solid #eaeef2;padding:4px 8px}
`
