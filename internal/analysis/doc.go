// Package analysis looks at recorded grabber runs after the fact.
//
//   - [PowerSpectrum] and [DominantPeriod]: how often the tracked count
//     rises and falls, for pulsed or windowed input
//   - [SettleTime]: when every held body has closed on the anchor
//   - [Sweep]: one run per parameter value, for radius and strength studies
//
// A sweep over the grab radius shows where bodies start falling out of
// reach:
//
//	points, err := analysis.Sweep(ctx, cfg, analysis.ParamRadius, 2, 20, 10, log)
//	fmt.Print(analysis.SweepToASCII(points, 60, 12))
package analysis
