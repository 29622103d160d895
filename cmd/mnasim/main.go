package main // import "mnasim/cmd/mnasim"

import (
	"flag"
	"fmt"
	"log"
	"math/cmplx"
	"os"
	"sort"

	"mnasim"
	"mnasim/pkg/bode"
	"mnasim/pkg/cplx"
	"mnasim/pkg/output"
)

var (
	csvPath  = flag.String("csv", "", "write results to this CSV file instead of stdout")
	plotStem = flag.String("plot", "", "render AC Bode plots to <stem>_<node>_mag.png/<stem>_<node>_phase.png, one pair per node")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: mnasim [-csv out.csv] [-plot stem] <netlist_file>")
	}

	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading netlist file: %v", err)
	}

	res, err := mnasim.Simulate(string(content))
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	switch {
	case res.AC != nil:
		nodes := sortedNodeNames(res.AC.NodeVoltages)
		if *plotStem != "" {
			for _, n := range nodes {
				if err := bode.MagnitudePhase(res.AC, n, *plotStem+"_"+n+"_mag.png", *plotStem+"_"+n+"_phase.png"); err != nil {
					log.Fatalf("rendering bode plot for %s: %v", n, err)
				}
			}
		}
		if *csvPath != "" {
			writeACCSV(nodes, res)
			return
		}
		printAC(nodes, res)

	case res.TRAN != nil:
		nodes := sortedStringNames(res.TRAN.NodeVoltages)
		if *csvPath != "" {
			writeTranCSV(nodes, res)
			return
		}
		printTran(nodes, res)

	default:
		fmt.Println("circuit parsed; no .ac or .tran analysis requested")
	}
}

func sortedNodeNames(m map[string][]complex128) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedStringNames(m map[string][]float64) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func writeACCSV(nodes []string, res *mnasim.Result) {
	f, err := os.Create(*csvPath)
	if err != nil {
		log.Fatalf("creating csv file: %v", err)
	}
	defer f.Close()
	if err := output.WriteACCSV(f, res.AC, nodes); err != nil {
		log.Fatalf("writing ac csv: %v", err)
	}
}

func writeTranCSV(nodes []string, res *mnasim.Result) {
	f, err := os.Create(*csvPath)
	if err != nil {
		log.Fatalf("creating csv file: %v", err)
	}
	defer f.Close()
	if err := output.WriteTranCSV(f, res.TRAN, nodes); err != nil {
		log.Fatalf("writing tran csv: %v", err)
	}
}

func printAC(nodes []string, res *mnasim.Result) {
	fmt.Printf("AC analysis: %d frequency points\n", len(res.AC.Freqs))
	fmt.Println("Frequency      Node Voltages (Magnitude<Phase)")
	fmt.Println("-------------------------------------------------")
	for i, f := range res.AC.Freqs {
		fmt.Printf("%-12g  ", f)
		for _, n := range nodes {
			v := res.AC.NodeVoltages[n][i]
			fmt.Printf("V(%s)=%g<%gdeg  ", n, cmplx.Abs(v), cplx.PhaseDeg(v))
		}
		fmt.Println()
	}
}

func printTran(nodes []string, res *mnasim.Result) {
	fmt.Printf("Transient analysis: %d time points\n", len(res.TRAN.Times))
	fmt.Println("Time         Node Voltages")
	fmt.Println("--------------------------")
	for i, t := range res.TRAN.Times {
		fmt.Printf("%-12g  ", t)
		for _, n := range nodes {
			fmt.Printf("V(%s)=%g  ", n, res.TRAN.NodeVoltages[n][i])
		}
		fmt.Println()
	}
}
