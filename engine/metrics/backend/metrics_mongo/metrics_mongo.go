package metrics_mongo

import (
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/playnet/gamelb/engine/lblog"
	metrics_types "github.com/playnet/gamelb/engine/metrics/types"
)

const (
	DEFAULT_DB_NAME = "gamelb"
)

// MongoMetrics appends metrics records to a MongoDB collection, one document
// per completed request
type MongoMetrics struct {
	session *mgo.Session
	c       *mgo.Collection
}

func OpenMongoMetrics(url string, dbname string, collectionName string) (*MongoMetrics, error) {
	lblog.Debugf("Connecting MongoDB ...")
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, err
	}

	session.SetMode(mgo.Monotonic, true)
	if dbname == "" {
		// if db is not specified, use default
		dbname = DEFAULT_DB_NAME
	}
	db := session.DB(dbname)
	c := db.C(collectionName)
	return &MongoMetrics{
		session: session,
		c:       c,
	}, nil
}

func (mm *MongoMetrics) Write(m *metrics_types.PlayerMetrics) error {
	values := m.Record()
	doc := make(bson.D, 0, len(metrics_types.Fields))
	for i, field := range metrics_types.Fields {
		doc = append(doc, bson.DocElem{Name: field, Value: values[i]})
	}
	return mm.c.Insert(doc)
}

func (mm *MongoMetrics) Close() error {
	mm.session.Close()
	return nil
}
