// Package mongo connects to MongoDB with the official v2 driver.
//
// It backs the document-store variant of the magic-link repository.
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(context.Background())
//
//	db := client.Database(cfg.Database)
package mongo
