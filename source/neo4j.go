package source

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/paulmach/orb"
	"github.com/rhartert/tradeways/network"
)

const (
	hubsQuery = `
MATCH (h:Hub)
RETURN h.id AS id, h.x AS x, h.y AS y,
       coalesce(h.elevation, 0.0) AS elevation,
       coalesce(h.overnight, false) AS overnight,
       coalesce(h.harbor, false) AS harbor,
       coalesce(h.market, false) AS market
ORDER BY id`

	edgesQuery = `
MATCH (a:Hub)-[e:EDGE]->(b:Hub)
RETURN e.id AS id, a.id AS hub_a, b.id AS hub_b, e.type AS type,
       e.cost_ab AS cost_ab, coalesce(e.cost_ba, e.cost_ab) AS cost_ba,
       coalesce(e.length, 0.0) AS length, properties(e) AS data
ORDER BY id`
)

// Querier runs a read query and returns all its records.
type Querier interface {
	Query(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
}

// Neo4jDatabase is a connection to a Neo4j database.
type Neo4jDatabase struct {
	Driver   neo4j.DriverWithContext
	Database string
}

// NewNeo4jDatabase connects to the database at uri and verifies the
// connection.
func NewNeo4jDatabase(ctx context.Context, uri, username, password, database string) (*Neo4jDatabase, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify connection: %w", err)
	}
	return &Neo4jDatabase{Driver: driver, Database: database}, nil
}

// Query implements Querier.
func (db *Neo4jDatabase) Query(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	settings := []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithReadersRouting()}
	if db.Database != "" {
		settings = append(settings, neo4j.ExecuteQueryWithDatabase(db.Database))
	}
	res, err := neo4j.ExecuteQuery(ctx, db.Driver, cypher, params, neo4j.EagerResultTransformer, settings...)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Close closes the underlying driver.
func (db *Neo4jDatabase) Close(ctx context.Context) error {
	return db.Driver.Close(ctx)
}

// Neo4j loads a network stored as (:Hub) nodes connected by [:EDGE]
// relationships going from hub_a to hub_b.
type Neo4j struct {
	DB Querier
}

// Load implements Loader.
func (n Neo4j) Load(ctx context.Context) (*Network, error) {
	hubRecords, err := n.DB.Query(ctx, hubsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("error running query for hubs: %w", err)
	}
	edgeRecords, err := n.DB.Query(ctx, edgesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("error running query for edges: %w", err)
	}

	net := &Network{}
	for i, rec := range hubRecords {
		r := record{rec}
		h := network.Hub{
			ID:        r.str("id"),
			Position:  orb.Point{r.num("x"), r.num("y")},
			Elevation: r.num("elevation"),
			Overnight: r.flag("overnight"),
			Harbor:    r.flag("harbor"),
			Market:    r.flag("market"),
		}
		if h.ID == "" {
			return nil, fmt.Errorf("hub record %d has no id", i)
		}
		net.Hubs = append(net.Hubs, h)
	}
	for i, rec := range edgeRecords {
		r := record{rec}
		e := network.Edge{
			ID:     r.str("id"),
			HubA:   r.str("hub_a"),
			HubB:   r.str("hub_b"),
			Type:   network.EdgeType(r.str("type")),
			CostAB: r.num("cost_ab"),
			CostBA: r.num("cost_ba"),
			Length: r.num("length"),
		}
		if e.ID == "" {
			return nil, fmt.Errorf("edge record %d has no id", i)
		}
		if data, ok := r.get("data").(map[string]any); ok {
			for k, v := range data {
				if edgeKeys[k] {
					continue
				}
				if e.Data == nil {
					e.Data = map[string]any{}
				}
				e.Data[k] = v
			}
		}
		net.Edges = append(net.Edges, e)
	}
	return net, nil
}

// record reads loosely typed values from a neo4j record. Missing keys read
// as zero values.
type record struct {
	*neo4j.Record
}

func (r record) get(key string) any {
	v, _ := r.Get(key)
	return v
}

func (r record) str(key string) string {
	s, _ := r.get(key).(string)
	return s
}

func (r record) num(key string) float64 {
	f, _ := network.ToFloat(r.get(key))
	return f
}

func (r record) flag(key string) bool {
	b, _ := r.get(key).(bool)
	return b
}
