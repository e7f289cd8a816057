// Package marketdata supplies the quantitative inputs the advisory agents
// reason over: historical price series, product news, performance and
// correlation analytics, and a Monte Carlo scenario engine. The bundled
// static provider generates deterministic series so local runs and tests
// behave identically without a market data subscription.
package marketdata
