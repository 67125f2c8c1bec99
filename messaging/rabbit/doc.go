// Package rabbit publishes and consumes JSON messages over RabbitMQ using
// github.com/rabbitmq/amqp091-go.
//
//	client, err := rabbit.Dial(rabbit.Config{HostAddress: "amqp://broker/"})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	pub, err := client.Publisher()
//	if err != nil {
//		return err
//	}
//	err = pub.Publish(ctx, "orders", "created", struct {
//		OrderID string
//	}{"o-1"})
//
// Every published message is logged at debug level with its body rendered by
// the convention package, and every consumer honors the configured prefetch
// count and concurrency limit.
package rabbit
