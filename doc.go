// Package serverquery is a client for the ServerQuery administration
// interface: a line-oriented text protocol spoken over a telnet-style TCP
// connection, by default on port 10011.
//
// Client is the protocol client. It serializes commands with package query,
// writes them to a Transport and parses the responses:
//
//	client := serverquery.NewClient(serverquery.Config{})
//	if err := client.Connect(ctx, "127.0.0.1:10011"); err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	ok, err := client.Login(ctx, "serveradmin", password)
//	res, err := client.Execute(ctx, "clientlist")
//	for _, rec := range res.Records {
//	    nick, _ := rec.String("client_nickname")
//	}
//
// Two decorators implement the same Querier interface:
//
//   - RetryClient retries refused connections and protocol errors, except
//     unknown commands, with a fixed delay between attempts.
//   - LazyClient defers the connection and the "use" and "login" commands
//     until the first command that needs the server.
//
// They compose, outermost first: LazyClient, RetryClient, Client. A third
// decorator, BreakerClient, adds a circuit breaker around transport failures.
package serverquery
