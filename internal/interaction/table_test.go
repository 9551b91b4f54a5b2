package interaction_test

import (
	"math/rand"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/funny233-github/paticle-life/internal/interaction"
	"github.com/funny233-github/paticle-life/internal/particle"
)

var _ = Describe("Table", func() {
	var table *interaction.Table

	BeforeEach(func() {
		table = interaction.New()
	})

	It("defines every pair after construction", func() {
		for _, a := range particle.AllTypes() {
			for _, b := range particle.AllTypes() {
				Expect(table.Get(a, b)).To(BeZero())
			}
		}
	})

	It("returns what Set stored, for any pair", func() {
		table.Set(particle.Red, particle.Blue, 0.5)
		table.Set(particle.Blue, particle.Red, -2.0)

		Expect(table.Get(particle.Red, particle.Blue)).To(Equal(0.5))
		Expect(table.Get(particle.Blue, particle.Red)).To(Equal(-2.0))
		// Asymmetric by design: no other cell is touched.
		Expect(table.Get(particle.Red, particle.Red)).To(BeZero())
	})

	Describe("Randomize", func() {
		It("fills every cell within the limit", func() {
			table.Randomize(0.75, rand.New(rand.NewSource(42)))

			outside := 0
			nonZero := 0
			for _, a := range particle.AllTypes() {
				for _, b := range particle.AllTypes() {
					v := table.Get(a, b)
					if v < -0.75 || v > 0.75 {
						outside++
					}
					if v != 0 {
						nonZero++
					}
				}
			}
			Expect(outside).To(BeZero())
			Expect(nonZero).To(BeNumerically(">", 0))
		})

		It("is reproducible for a fixed seed", func() {
			other := interaction.New()
			table.Randomize(1.0, rand.New(rand.NewSource(9)))
			other.Randomize(1.0, rand.New(rand.NewSource(9)))

			for _, a := range particle.AllTypes() {
				for _, b := range particle.AllTypes() {
					Expect(table.Get(a, b)).To(Equal(other.Get(a, b)))
				}
			}
		})
	})

	It("Reset copies every cell and Clone detaches", func() {
		src := interaction.New()
		src.Randomize(1.0, rand.New(rand.NewSource(5)))
		table.Reset(src)

		clone := table.Clone()
		clone.Set(particle.Amber, particle.Amber, 99)

		for _, a := range particle.AllTypes() {
			for _, b := range particle.AllTypes() {
				Expect(table.Get(a, b)).To(Equal(src.Get(a, b)))
			}
		}
		Expect(table.Get(particle.Amber, particle.Amber)).NotTo(Equal(99.0))
	})
})

var _ = Describe("CSV codec", func() {
	validCSV := func() string {
		table := interaction.New()
		table.Randomize(1.0, rand.New(rand.NewSource(11)))
		var b strings.Builder
		Expect(interaction.Save(&b, table)).To(Succeed())
		return b.String()
	}

	It("round-trips a full matrix", func() {
		src := interaction.New()
		src.Randomize(1.0, rand.New(rand.NewSource(11)))

		var b strings.Builder
		Expect(interaction.Save(&b, src)).To(Succeed())

		loaded, err := interaction.Load(strings.NewReader(b.String()))
		Expect(err).NotTo(HaveOccurred())
		for _, a := range particle.AllTypes() {
			for _, t := range particle.AllTypes() {
				Expect(loaded.Get(a, t)).To(Equal(src.Get(a, t)))
			}
		}
	})

	It("accepts shuffled label order", func() {
		lines := strings.Split(strings.TrimSpace(validCSV()), "\n")
		// Swap the first two data rows; labels travel with their rows.
		lines[1], lines[2] = lines[2], lines[1]
		shuffled := strings.Join(lines, "\n")

		loaded, err := interaction.Load(strings.NewReader(shuffled))
		Expect(err).NotTo(HaveOccurred())

		reference, err := interaction.Load(strings.NewReader(validCSV()))
		Expect(err).NotTo(HaveOccurred())
		for _, a := range particle.AllTypes() {
			for _, t := range particle.AllTypes() {
				Expect(loaded.Get(a, t)).To(Equal(reference.Get(a, t)))
			}
		}
	})

	DescribeTable("rejects malformed input",
		func(mutate func(string) string) {
			_, err := interaction.Load(strings.NewReader(mutate(validCSV())))
			Expect(err).To(HaveOccurred())
			var loadErr *interaction.LoadError
			Expect(err).To(BeAssignableToTypeOf(loadErr))
		},
		Entry("empty input", func(string) string { return "" }),
		Entry("missing row", func(s string) string {
			lines := strings.Split(strings.TrimSpace(s), "\n")
			return strings.Join(lines[:len(lines)-1], "\n")
		}),
		Entry("unknown column label", func(s string) string {
			return strings.Replace(s, "Amber", "Magenta", 1)
		}),
		Entry("unknown row label", func(s string) string {
			lines := strings.Split(strings.TrimSpace(s), "\n")
			lines[1] = strings.Replace(lines[1], "Amber", "Magenta", 1)
			return strings.Join(lines, "\n")
		}),
		Entry("duplicate row label", func(s string) string {
			lines := strings.Split(strings.TrimSpace(s), "\n")
			lines[2] = lines[1]
			return strings.Join(lines, "\n")
		}),
		Entry("non-numeric cell", func(s string) string {
			lines := strings.Split(strings.TrimSpace(s), "\n")
			cells := strings.Split(lines[1], ",")
			cells[1] = "abc"
			lines[1] = strings.Join(cells, ",")
			return strings.Join(lines, "\n")
		}),
		Entry("ragged row", func(s string) string {
			lines := strings.Split(strings.TrimSpace(s), "\n")
			lines[3] += ",1.0"
			return strings.Join(lines, "\n")
		}),
	)

	It("leaves the caller's table untouched on failure", func() {
		existing := interaction.New()
		existing.Set(particle.Teal, particle.Lime, 0.25)

		_, err := interaction.Load(strings.NewReader("not,a,matrix"))
		Expect(err).To(HaveOccurred())
		Expect(existing.Get(particle.Teal, particle.Lime)).To(Equal(0.25))
	})
})
