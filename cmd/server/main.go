package main

import (
	"context"
	"html/template"
	"log"
	"log/slog"
	"net/http"

	"github.com/dpup/prefab"

	"github.com/dpup/spherical/internal/cache"
	"github.com/dpup/spherical/internal/config"
	"github.com/dpup/spherical/internal/services"
)

var (
	appConfig     *config.Config
	cacheInstance *cache.Cache
)

func main() {
	// Load configuration using Prefab's config system
	appConfig = loadConfig()

	// Render cache, swept in the background for the lifetime of the process
	cacheInstance = cache.NewCache()
	if appConfig.Cache.Enabled {
		cacheInstance.StartPeriodicCleanup(context.Background(), appConfig.Cache.CleanupInterval)
	}

	geometryService, err := services.NewGeometryService(appConfig, cacheInstance)
	if err != nil {
		log.Fatalf("Failed to create geometry service: %v", err)
	}

	// Keep configured feeds warm so the first request after startup is served from cache
	services.NewFeedRefresher(geometryService).Start(context.Background())

	log.Printf("Spherical geometry server starting")
	log.Printf("Sphere radius: %.3f km", appConfig.Sphere.RadiusKm)
	log.Printf("KML feeds: %d", len(appConfig.Feeds))

	// Server configuration (port, etc.) will be loaded from prefab.yaml/env vars
	server := prefab.New(
		prefab.WithGRPCReflection(),
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
	)

	services.RegisterGeometryServiceServer(server.ServiceRegistrar(), geometryService)

	if err := services.RegisterGeometryServiceHandlerFromEndpoint(server.GatewayArgs()); err != nil {
		log.Fatalf("Failed to register Geometry service gateway: %v", err)
	}

	// Start the server (blocks until shutdown)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig layers the sphere, sampling, cache and feeds sections from
// prefab.yaml and PF__ environment variables over the defaults
func loadConfig() *config.Config {
	cfg := config.DefaultConfig()

	sections := []struct {
		key    string
		target any
	}{
		{"sphere", &cfg.Sphere},
		{"sampling", &cfg.Sampling},
		{"cache", &cfg.Cache},
	}
	for _, section := range sections {
		if !prefab.Config.Exists(section.key) {
			continue
		}
		if err := prefab.Config.Unmarshal(section.key, section.target); err != nil {
			log.Fatalf("Failed to unmarshal %s section: %v", section.key, err)
		}
	}
	if prefab.Config.Exists("feeds") {
		cfg.Feeds = nil
		if err := prefab.Config.Unmarshal("feeds", &cfg.Feeds); err != nil {
			log.Fatalf("Failed to unmarshal feeds section: %v", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

var homepage = template.Must(template.New("homepage").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>spherical</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">spherical</span>

Geodesic distances, bearings, paths, circles and triangles on a sphere of
radius {{printf "%.3f" .RadiusKm}} km, rendered as GeoJSON or KML.

<span class="header">Measurements:</span>
  <a href="/api/v1/distance?from=51.5074,-0.1278&amp;to=48.8566,2.3522">GET /api/v1/distance</a>      - Great-circle distance (from, to, unit)
  <a href="/api/v1/bearing?from=51.5074,-0.1278&amp;to=48.8566,2.3522">GET /api/v1/bearing</a>       - Initial, final and arrival bearings
  <a href="/api/v1/interpolate?from=51.5074,-0.1278&amp;to=48.8566,2.3522&amp;fraction=0.5">GET /api/v1/interpolate</a>   - Point at a fraction of the path
  <a href="/api/v1/cross-track?from=0,0&amp;to=0,10&amp;point=1,5">GET /api/v1/cross-track</a>   - Cross- and along-track distance
  <a href="/api/v1/centroid?points=0,0&amp;points=0,10">GET /api/v1/centroid</a>      - Spherical centroid of points
  <a href="/api/v1/area?points=0,0&amp;points=0,90&amp;points=90,0">GET /api/v1/area</a>          - Area enclosed by a ring

<span class="header">Renders:</span>
  <a href="/api/v1/path?from=51.5074,-0.1278&amp;to=48.8566,2.3522">GET /api/v1/path</a>          - Great-circle path (points, spacingKm, extendKm, format)
  <a href="/api/v1/circle?center=38.1377,-120.4652&amp;radiusKm=10">GET /api/v1/circle</a>        - Small circle (center, radiusKm, segments, format)
  <a href="/api/v1/triangle?vertices=0,0&amp;vertices=0,1&amp;vertices=1,0">GET /api/v1/triangle</a>      - Spherical triangle (vertices or sss, sas, aas, asa)
{{range .Feeds}}  <a href="/api/v1/feeds/{{.ID}}">GET /api/v1/feeds/{{.ID}}</a> - {{.Name}}
{{end}}
<span class="header">Render cache:</span>
  {{.Stats.FreshEntries}} fresh, {{.Stats.StaleEntries}} stale, {{.Stats.TotalBytes}} bytes, {{.Stats.Hits}} hits, {{.Stats.Misses}} misses
</pre>
</body>
</html>`))

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	// Only handle the root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := struct {
		RadiusKm float64
		Feeds    []config.FeedConfig
		Stats    cache.CacheStats
	}{
		RadiusKm: appConfig.Sphere.RadiusKm,
		Feeds:    appConfig.Feeds,
		Stats:    cacheInstance.Stats(),
	}
	if err := homepage.Execute(w, data); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}
